package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibadge/internal/domain"
)

func TestNormalizeRecipients(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "dedupes keeping first-seen order", in: []string{"b@x.com", "a@x.com", "b@x.com"}, want: []string{"b@x.com", "a@x.com"}},
		{name: "case and whitespace folded", in: []string{" A@X.com", "a@x.COM "}, want: []string{"a@x.com"}},
		{name: "blanks ignored", in: []string{"", "  ", "a@x.com"}, want: []string{"a@x.com"}},
		{name: "invalid address fails everything", in: []string{"a@x.com", "bogus"}, wantErr: true},
		{name: "nothing left", in: []string{" "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRecipients(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
