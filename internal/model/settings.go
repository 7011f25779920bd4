package model

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

// ConnectionSettings is the committed external-source configuration. The
// back end never returns the stored token, only whether one exists.
type ConnectionSettings struct {
	SourceURL    string `json:"sourceUrl"`
	TableID      string `json:"tableId"`
	TokenPresent bool   `json:"tokenPresent"`
}

// IsReady reports whether job queries may be issued against these settings.
func (s ConnectionSettings) IsReady() bool {
	return s.TokenPresent && s.SourceURL != "" && s.TableID != ""
}

type SaveSettingsResponse struct {
	Config ConnectionSettings `json:"config"`
}

// PendingConnectionEdit is the staging copy edited in the settings form.
// An empty Token means "keep the stored secret", never "clear it".
type PendingConnectionEdit struct {
	SourceURL string `json:"sourceUrl" validate:"required,url"`
	TableID   string `json:"tableId" validate:"required"`
	Token     string `json:"token,omitempty"`
}

// EditFrom seeds an edit from committed settings. The token is never known
// client-side so it starts empty.
func EditFrom(s ConnectionSettings) PendingConnectionEdit {
	return PendingConnectionEdit{SourceURL: s.SourceURL, TableID: s.TableID}
}

// Dirty reports whether the edit would change anything if saved.
func (e PendingConnectionEdit) Dirty(committed ConnectionSettings) bool {
	return e.SourceURL != committed.SourceURL || e.TableID != committed.TableID || e.Token != ""
}

var validate = validator.New()

// Validate checks the edit before it is sent. Only shape is checked; the
// values are passed through to the back end as-is.
func (e PendingConnectionEdit) Validate() error {
	if err := validate.Struct(e); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationError{Field: jsonName(fe.StructField()), Reason: reasonFor(fe.Tag())}
		}
		return &ValidationError{Reason: err.Error()}
	}
	u, err := url.Parse(e.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "sourceUrl", Reason: "must be an absolute http(s) URL"}
	}
	return nil
}

func jsonName(structField string) string {
	switch structField {
	case "SourceURL":
		return "sourceUrl"
	case "TableID":
		return "tableId"
	case "Token":
		return "token"
	}
	return structField
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	}
	return "failed " + tag + " check"
}
