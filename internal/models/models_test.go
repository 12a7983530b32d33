package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	type args struct {
		username       string
		email          string
		hashedPassword string
	}
	tests := []struct {
		name string
		args args
		want *User
	}{
		{
			name: "Create new user with identity and hash",
			args: args{
				username:       "testuser",
				email:          "test@example.com",
				hashedPassword: "$2a$10$hash",
			},
			want: &User{
				ID:             "", // set by the repository
				Username:       "testuser",
				Email:          "test@example.com",
				HashedPassword: "$2a$10$hash",
			},
		},
		{
			name: "Create new user with empty values",
			want: &User{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewUser(tt.args.username, tt.args.email, tt.args.hashedPassword); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewUser() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_PasswordNeverSerialized(t *testing.T) {
	raw, err := json.Marshal(NewUser("tim", "tim@example.com", "secret-hash"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
	assert.Contains(t, string(raw), `"username":"tim"`)
}

func images(names ...string) []Image {
	out := make([]Image, 0, len(names))
	for _, n := range names {
		out = append(out, Image{URL: "https://media.test/" + n, Filename: n})
	}
	return out
}

func TestCampground_AttachImages(t *testing.T) {
	tests := []struct {
		name    string
		current []Image
		attach  []Image
		want    []Image
	}{
		{name: "append in order", current: images("a"), attach: images("b", "c"), want: images("a", "b", "c")},
		{name: "already attached is a no-op", current: images("a", "b"), attach: images("b"), want: images("a", "b")},
		{name: "duplicates within the batch", attach: images("a", "a"), want: images("a")},
		{name: "nothing to attach", current: images("a"), want: images("a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campground{Images: tt.current}
			c.AttachImages(tt.attach...)
			assert.Equal(t, tt.want, c.Images)
		})
	}
}

func TestCampground_DetachImages(t *testing.T) {
	tests := []struct {
		name         string
		current      []Image
		filenames    []string
		want         []Image
		wantDetached []Image
	}{
		{name: "keeps order of the rest", current: images("a", "b", "c", "d"), filenames: []string{"c", "a"}, want: images("b", "d"), wantDetached: images("a", "c")},
		{name: "unknown filename", current: images("a"), filenames: []string{"z"}, want: images("a")},
		{name: "no filenames", current: images("a", "b"), want: images("a", "b")},
		{name: "detach all", current: images("a", "b"), filenames: []string{"a", "b"}, want: []Image{}, wantDetached: images("a", "b")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campground{Images: tt.current}
			detached := c.DetachImages(tt.filenames)
			assert.Equal(t, tt.want, c.Images)
			assert.Equal(t, tt.wantDetached, detached)
		})
	}
}

func TestCampground_MediaFilenames(t *testing.T) {
	c := &Campground{Images: []Image{{URL: "u1", Filename: "a"}, {URL: "seed"}, {URL: "u2", Filename: "b"}}}
	assert.Equal(t, []string{"a", "b"}, c.MediaFilenames())
}

func TestCampground_RemoveReview(t *testing.T) {
	c := &Campground{Reviews: []string{"r1", "r2", "r3"}}

	assert.True(t, c.RemoveReview("r2"))
	assert.Equal(t, []string{"r1", "r3"}, c.Reviews)
	assert.False(t, c.RemoveReview("r2"))
}

func TestNewCampgroundDetail(t *testing.T) {
	c := &Campground{
		ID:       "c1",
		Title:    "Moab Rim",
		Geometry: &Geometry{Type: GeometryTypePoint, Coordinates: []float64{-109.5, 38.5}},
		Images:   images("a"),
		Author:   "u1",
		Reviews:  []string{"r1"},
	}
	d := NewCampgroundDetail(c)

	assert.Equal(t, "c1", d.ID)
	assert.Equal(t, c.Geometry, d.Geometry)
	assert.Nil(t, d.Author)
	assert.Empty(t, d.Reviews)
	assert.NotNil(t, d.Reviews)
}
