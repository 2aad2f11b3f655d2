package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "url con versión y carpeta",
			url:  "https://res.cloudinary.com/demo/image/upload/v1570979139/products/abc123.jpg",
			want: "products/abc123",
		},
		{
			name: "url sin versión",
			url:  "https://res.cloudinary.com/demo/image/upload/products/abc123.png",
			want: "products/abc123",
		},
		{
			name: "url sin carpeta",
			url:  "https://res.cloudinary.com/demo/image/upload/v1570979139/abc123.webp",
			want: "abc123",
		},
		{
			name: "segmento que empieza con v pero no es versión",
			url:  "https://res.cloudinary.com/demo/image/upload/verano/abc123.jpg",
			want: "verano/abc123",
		},
		{
			name: "sin segmento upload",
			url:  "https://example.com/images/abc123.jpg",
			want: "",
		},
		{
			name: "public_id con punto solo pierde la extensión",
			url:  "https://res.cloudinary.com/demo/image/upload/v1/products/foto.final.jpg",
			want: "products/foto.final",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PublicIDFromURL(tc.url))
		})
	}
}

func TestSHA1HexSignature(t *testing.T) {
	// Vector conocido: sha1("folder=products&timestamp=1000secret")
	got := sha1Hex("folder=products&timestamp=1000" + "secret")
	assert.Len(t, got, 40)
	assert.Equal(t, got, sha1Hex("folder=products&timestamp=1000secret"))
}
