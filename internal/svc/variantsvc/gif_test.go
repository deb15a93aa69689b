package variantsvc_test

import (
	"testing"

	"github.com/mkrupp/imgix-helper/internal/svc/variantsvc"
)

func TestFixGIFURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "removes compress",
			url:  "https://x.test/a.gif?auto=compress,format",
			want: "https://x.test/a.gif?auto=format",
		},
		{
			name: "moves auto to the end",
			url:  "https://x.test/a.gif?auto=format,compress&w=300",
			want: "https://x.test/a.gif?w=300&auto=format",
		},
		{
			name: "compress only",
			url:  "https://x.test/a.gif?auto=compress",
			want: "https://x.test/a.gif?auto=",
		},
		{
			name: "no compress token",
			url:  "https://x.test/a.gif?auto=format",
			want: "https://x.test/a.gif?auto=format",
		},
		{
			name: "other extension",
			url:  "https://x.test/a.png?auto=compress",
			want: "https://x.test/a.png?auto=compress",
		},
		{
			name: "extension match is case sensitive",
			url:  "https://x.test/a.GIF?auto=compress",
			want: "https://x.test/a.GIF?auto=compress",
		},
		{
			name: "no query",
			url:  "https://x.test/a.gif",
			want: "https://x.test/a.gif",
		},
		{
			name: "no auto parameter",
			url:  "https://x.test/a.gif?w=300",
			want: "https://x.test/a.gif?w=300",
		},
		{
			name: "gif in query only",
			url:  "https://x.test/a.jpg?f=b.gif&auto=compress",
			want: "https://x.test/a.jpg?f=b.gif&auto=compress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := variantsvc.FixGIFURL(tt.url)
			if got != tt.want {
				t.Errorf("FixGIFURL() = %q, want %q", got, tt.want)
			}

			if again := variantsvc.FixGIFURL(got); again != got {
				t.Errorf("FixGIFURL() not idempotent: %q, then %q", got, again)
			}
		})
	}
}
