package moderator

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ComposeContact(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		tmpl    ContactTemplate
		want    string
		wantErr error
	}{
		{
			name:  "plain address",
			email: "poster@example.com",
			tmpl:  ContactTemplate{Subject: "Hi there", Body: "Line 1\nLine 2"},
			want:  "mailto:poster%40example.com?subject=Hi%20there&body=Line%201%0ALine%202",
		},
		{
			name:  "quotes and angle brackets are stripped",
			email: ` "<poster@example.com>" `,
			tmpl:  ContactTemplate{Subject: "A&B", Body: "x=y"},
			want:  "mailto:poster%40example.com?subject=A%26B&body=x%3Dy",
		},
		{
			name:    "empty address",
			email:   "   ",
			wantErr: ErrNoEmail,
		},
		{
			name:    "nothing left after stripping",
			email:   `<"'>`,
			wantErr: ErrNoEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeContact(tt.email, tt.tmpl)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_ComposeContact_DefaultTemplate(t *testing.T) {
	href, err := ComposeContact("poster@example.com", DefaultContactTemplate())
	require.NoError(t, err)

	u, err := url.Parse(href)
	require.NoError(t, err)
	assert.Equal(t, "mailto", u.Scheme)
	assert.Equal(t, "poster%40example.com", u.Opaque)

	query, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, DefaultContactSubject, query.Get("subject"))
	assert.Equal(t, DefaultContactBody, query.Get("body"))
}
