// Package onboarding implements the seller registration flow: collecting
// structured store metadata and supporting documents, uploading binary assets
// to the backend, and submitting the assembled payload.
//
// Each submission is an explicit staged pipeline (validate, upload assets,
// assemble payload, submit) where any stage failure short-circuits the rest.
// Uploaded assets keep their reference URL on the form, so retrying after a
// late failure does not re-upload them.
package onboarding

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// Stage identifies a pipeline stage for error reporting.
type Stage string

const (
	StageValidate Stage = "validate"
	StageUpload   Stage = "upload"
	StageSubmit   Stage = "submit"
)

// MaxVerificationDocuments caps the number of documents accepted on the
// verification form.
const MaxVerificationDocuments = 4

// ValidationError reports a required field that was left empty.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// StageError wraps a failure with the stage it occurred in, so the caller can
// surface one message derived from the failing step.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Asset is a binary attachment (logo or verification document). URL is empty
// until the asset has been uploaded; a non-empty URL survives a failed
// submission so the retry skips the upload.
type Asset struct {
	Name    string
	Content []byte
	URL     string
}

// Uploader uploads one file to the backend and returns its reference URL.
type Uploader interface {
	UploadFile(ctx context.Context, name string, content []byte) (string, error)
}

// BusinessInfo is the first onboarding form: structured store metadata plus
// an optional logo.
type BusinessInfo struct {
	StoreName   string
	Email       string
	Phone       string
	Address     string
	City        string
	State       string
	PostalCode  string
	Country     string
	Description string
	Instagram   string
	Facebook    string
	Logo        *Asset
}

// Verification is the second onboarding form: up to four supporting
// documents for the registered store.
type Verification struct {
	StoreID   string
	Documents []*Asset
}

// StorePayload is the assembled create/update payload for a seller store.
// The client-side postal code field is serialized as "postcode" at this
// boundary; the rename is applied uniformly to create and update paths.
type StorePayload struct {
	StoreName   string `json:"storeName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
}

// VerificationPayload is the assembled verification submission.
type VerificationPayload struct {
	StoreID      string   `json:"storeId"`
	DocumentURLs []string `json:"documentUrls"`
}

// StoreSubmitter submits the assembled store payload to the backend.
type StoreSubmitter interface {
	SubmitStore(ctx context.Context, payload StorePayload) (storeID string, err error)
	SubmitVerification(ctx context.Context, payload VerificationPayload) error
}

// Pipeline runs onboarding submissions against the backend.
type Pipeline struct {
	uploader  Uploader
	submitter StoreSubmitter
}

// NewPipeline creates a Pipeline with the required backend dependencies.
func NewPipeline(uploader Uploader, submitter StoreSubmitter) *Pipeline {
	return &Pipeline{uploader: uploader, submitter: submitter}
}

// SubmitBusinessInfo runs the business-info form through the pipeline and
// returns the created store's ID. On failure the form (including any asset
// URLs captured by completed uploads) is left intact for retry.
func (p *Pipeline) SubmitBusinessInfo(ctx context.Context, form *BusinessInfo) (string, error) {
	if err := validateBusinessInfo(form); err != nil {
		return "", &StageError{Stage: StageValidate, Err: err}
	}

	if form.Logo != nil {
		if err := p.uploadAsset(ctx, form.Logo); err != nil {
			return "", &StageError{Stage: StageUpload, Err: err}
		}
	}

	payload := assembleStorePayload(form)

	storeID, err := p.submitter.SubmitStore(ctx, payload)
	if err != nil {
		return "", &StageError{Stage: StageSubmit, Err: err}
	}
	return storeID, nil
}

// SubmitVerification runs the verification form through the pipeline.
// Documents are uploaded sequentially; ones uploaded by a previous attempt
// are skipped.
func (p *Pipeline) SubmitVerification(ctx context.Context, form *Verification) error {
	if err := validateVerification(form); err != nil {
		return &StageError{Stage: StageValidate, Err: err}
	}

	for _, doc := range form.Documents {
		if err := p.uploadAsset(ctx, doc); err != nil {
			return &StageError{Stage: StageUpload, Err: err}
		}
	}

	payload := VerificationPayload{StoreID: form.StoreID}
	for _, doc := range form.Documents {
		payload.DocumentURLs = append(payload.DocumentURLs, doc.URL)
	}

	if err := p.submitter.SubmitVerification(ctx, payload); err != nil {
		return &StageError{Stage: StageSubmit, Err: err}
	}
	return nil
}

// uploadAsset uploads the asset unless a previous attempt already captured
// its reference URL.
func (p *Pipeline) uploadAsset(ctx context.Context, a *Asset) error {
	if a.URL != "" {
		return nil
	}
	url, err := p.uploader.UploadFile(ctx, a.Name, a.Content)
	if err != nil {
		return errors.Wrapf(err, "upload %s", a.Name)
	}
	a.URL = url
	return nil
}

func validateBusinessInfo(form *BusinessInfo) error {
	required := []struct {
		field, value string
	}{
		{"storeName", form.StoreName},
		{"email", form.Email},
		{"phone", form.Phone},
		{"address", form.Address},
		{"city", form.City},
		{"state", form.State},
		{"postalCode", form.PostalCode},
		{"country", form.Country},
	}
	for _, f := range required {
		if f.value == "" {
			return &ValidationError{Field: f.field}
		}
	}
	return nil
}

func validateVerification(form *Verification) error {
	if form.StoreID == "" {
		return &ValidationError{Field: "storeId"}
	}
	if len(form.Documents) == 0 {
		return &ValidationError{Field: "documents"}
	}
	if len(form.Documents) > MaxVerificationDocuments {
		return errors.Errorf("at most %d documents allowed", MaxVerificationDocuments)
	}
	return nil
}

func assembleStorePayload(form *BusinessInfo) StorePayload {
	payload := StorePayload{
		StoreName:   form.StoreName,
		Email:       form.Email,
		Phone:       form.Phone,
		Address:     form.Address,
		City:        form.City,
		State:       form.State,
		Postcode:    form.PostalCode,
		Country:     form.Country,
		Description: form.Description,
		Instagram:   form.Instagram,
		Facebook:    form.Facebook,
	}
	if form.Logo != nil {
		payload.LogoURL = form.Logo.URL
	}
	return payload
}
