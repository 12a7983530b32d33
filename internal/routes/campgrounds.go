package routes

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-viper/mapstructure/v2"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/metrics"
	"github.com/haguru/yelpcamp/internal/middleware"
	"github.com/haguru/yelpcamp/internal/models/dto"
)

// ListCampgrounds handles GET /campgrounds.
func (r *Route) ListCampgrounds(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpList)

	campgrounds, err := r.CampgroundService.ListCampgrounds(req.Context())
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToListCampgrounds)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.CampgroundListResponseDTO{Campgrounds: campgrounds})
}

// ShowCampground handles GET /campgrounds/{id} with author and reviews populated.
func (r *Route) ShowCampground(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpShow)

	detail, err := r.CampgroundService.GetCampgroundDetail(req.Context(), chi.URLParam(req, ParamID))
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToGetCampground)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.CampgroundDetailResponseDTO{Campgrounds: detail})
}

// EditCampgroundForm handles GET /campgrounds/{id}/edit.
func (r *Route) EditCampgroundForm(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpEdit)

	campground, err := r.CampgroundService.GetCampground(req.Context(), chi.URLParam(req, ParamID))
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToGetCampground)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.CampgroundEditResponseDTO{Campground: campground})
}

// CreateCampground handles the multipart POST /campgrounds/new.
func (r *Route) CreateCampground(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpCreate)

	input, uploads, err := r.parseCampgroundForm(w, req)
	if err != nil {
		done(err)
		r.formError(w, err)
		return
	}

	authorID := middleware.GetUserID(req.Context())
	campground, err := r.CampgroundService.CreateCampground(req.Context(), authorID, input, uploads)
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToCreateCamp)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.CampgroundCreatedResponseDTO{
		Message:    MsgCampgroundCreated,
		Campground: campground,
	})
}

// UpdateCampground handles the multipart POST /campgrounds/{id}/edit.
func (r *Route) UpdateCampground(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpUpdate)

	input, uploads, err := r.parseCampgroundForm(w, req)
	if err != nil {
		done(err)
		r.formError(w, err)
		return
	}

	_, err = r.CampgroundService.EditCampground(req.Context(), chi.URLParam(req, ParamID), input, uploads)
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToEditCampground)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.MessageResponseDTO{Message: MsgCampgroundUpdated})
}

// DeleteCampground handles DELETE /campgrounds/{id}.
func (r *Route) DeleteCampground(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpDelete)

	err := r.CampgroundService.DeleteCampground(req.Context(), chi.URLParam(req, ParamID))
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToDeleteCamp)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.MessageResponseDTO{Message: MsgCampgroundDeleted})
}

// CreateReview handles POST /campgrounds/{id}/reviews for a signed-in user.
func (r *Route) CreateReview(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpReviewCreate)

	reviewRequest := &dto.ReviewRequestDTO{}
	if status, message, err := r.decodeJSON(req, reviewRequest); err != nil {
		done(err)
		r.errorResponse(w, status, err, message)
		return
	}

	review, err := r.CampgroundService.CreateReview(req.Context(), chi.URLParam(req, ParamID),
		middleware.GetUserID(req.Context()), reviewRequest.Body, reviewRequest.Rating)
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToCreateReview)
		return
	}
	r.jsonResponse(w, http.StatusCreated, &dto.ReviewCreatedResponseDTO{
		Message: MsgReviewCreated,
		Review:  review,
	})
}

// DeleteReview handles DELETE /campgrounds/{id}/reviews/{reviewId}; only the author may delete.
func (r *Route) DeleteReview(w http.ResponseWriter, req *http.Request) {
	done := r.track(OpReviewDelete)

	err := r.CampgroundService.DeleteReview(req.Context(), chi.URLParam(req, ParamID),
		chi.URLParam(req, ParamReviewID), middleware.GetUserID(req.Context()))
	done(err)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToDeleteReview)
		return
	}
	r.jsonResponse(w, http.StatusOK, &dto.MessageResponseDTO{Message: MsgReviewDeleted})
}

// track counts a campground operation and returns the func that records its outcome.
func (r *Route) track(op string) func(err error) {
	start := time.Now()
	r.Metrics.IncCounterVec(metrics.CampgroundRequestsTotal, op)
	return func(err error) {
		r.Metrics.ObserveSinceVec(metrics.CampgroundDurationSeconds, start, op)
		if err != nil {
			r.Metrics.IncCounterVec(metrics.CampgroundErrorsTotal, op)
		}
	}
}

// formError answers a form that could not be parsed: 413 past the body limit, 400 otherwise.
func (r *Route) formError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		r.errorResponse(w, http.StatusRequestEntityTooLarge, err, ErrRequestTooLarge)
		return
	}
	r.errorResponse(w, http.StatusBadRequest, err, ErrInvalidForm)
}

// parseCampgroundForm decodes the text fields into the form DTO and collects
// the files sent under the configured upload field. The body is capped at the
// configured limit.
func (r *Route) parseCampgroundForm(w http.ResponseWriter, req *http.Request) (interfaces.CampgroundInput, []interfaces.Upload, error) {
	req.Body = http.MaxBytesReader(w, req.Body, r.upload.BodyLimit())

	err := req.ParseMultipartForm(r.upload.MaxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = req.ParseForm()
	}
	if err != nil {
		return interfaces.CampgroundInput{}, nil, fmt.Errorf("failed to parse form: %w", err)
	}

	values := map[string]interface{}{}
	for _, field := range []string{FieldTitle, FieldLocation, FieldPrice, FieldDescription} {
		if v := req.Form.Get(field); v != "" {
			values[field] = v
		}
	}
	deleteImages := append(append([]string{}, req.Form[FieldDeleteImages]...), req.Form[FieldDeleteImages+FieldDeleteImagesSuffix]...)
	if len(deleteImages) > 0 {
		values[FieldDeleteImages] = deleteImages
	}

	form := dto.CampgroundFormDTO{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return interfaces.CampgroundInput{}, nil, err
	}
	if err := decoder.Decode(values); err != nil {
		return interfaces.CampgroundInput{}, nil, fmt.Errorf("invalid form values: %w", err)
	}
	if err := r.validator.Struct(&form); err != nil {
		return interfaces.CampgroundInput{}, nil, fmt.Errorf("invalid campground data: %w", err)
	}

	var uploads []interfaces.Upload
	if req.MultipartForm != nil {
		for _, header := range req.MultipartForm.File[r.upload.FieldName] {
			uploads = append(uploads, newUpload(header))
		}
	}

	return interfaces.CampgroundInput{
		Title:        form.Title,
		Location:     form.Location,
		Price:        form.Price,
		Description:  form.Description,
		DeleteImages: form.DeleteImages,
	}, uploads, nil
}

func newUpload(header *multipart.FileHeader) interfaces.Upload {
	return interfaces.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(ContentType),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}
