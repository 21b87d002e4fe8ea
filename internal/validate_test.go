package contact

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorSubmission(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		req   SubmissionRequest
		field string
		tag   string
	}{
		{"valid", SubmissionRequest{Name: "Ana", Email: "ana@x.com", Message: "Hello"}, "", ""},
		{"two-rune name", SubmissionRequest{Name: "Øy", Email: "a@b.io", Message: "Hello"}, "", ""},
		{"one char name", SubmissionRequest{Name: "A", Email: "ana@x.com", Message: "Hello"}, "name", "min"},
		{"missing email", SubmissionRequest{Name: "Ana", Message: "Hello"}, "email", "required"},
		{"bad email", SubmissionRequest{Name: "Ana", Email: "ana at x", Message: "Hello"}, "email", "email"},
		{"four char message", SubmissionRequest{Name: "Ana", Email: "ana@x.com", Message: "Hell"}, "message", "min"},
		{"huge message", SubmissionRequest{Name: "Ana", Email: "ana@x.com", Message: strings.Repeat("x", 5001)}, "message", "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&tt.req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Equal(t, tt.tag, verr.Fields[0].Tag)
			assert.Contains(t, verr.Error(), tt.field)
		})
	}
}

func TestSubmissionNormalize(t *testing.T) {
	r := SubmissionRequest{Name: " Ana\n", Email: "\tana@x.com ", Message: "  hi there  ", RecaptchaToken: " t "}
	r.normalize()

	assert.Equal(t, SubmissionRequest{Name: "Ana", Email: "ana@x.com", Message: "hi there", RecaptchaToken: "t"}, r)
}
