package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShareLinkViewable(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		link ShareLink
		want bool
	}{
		{
			name: "active without expiry",
			link: ShareLink{},
			want: true,
		},
		{
			name: "active with future expiry",
			link: ShareLink{ExpiresAt: &future},
			want: true,
		},
		{
			name: "expired",
			link: ShareLink{ExpiresAt: &past},
			want: false,
		},
		{
			name: "revoked",
			link: ShareLink{RevokedAt: &past},
			want: false,
		},
		{
			name: "revoked wins over future expiry",
			link: ShareLink{RevokedAt: &past, ExpiresAt: &future},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.link.Viewable(now))
		})
	}
}
