package sniffer

import (
	"errors"
	"testing"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
		mime string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, TypePNG, "image/png"},
		{"gif87", []byte("GIF87a......"), TypeGIF, "image/gif"},
		{"gif89", []byte("GIF89a......"), TypeGIF, "image/gif"},
		{"webp", []byte("RIFF....WEBPVP8 "), TypeWEBP, "image/webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			if err != nil {
				t.Fatalf("DetectHead() err = %v", err)
			}
			if result.Type != tc.want {
				t.Fatalf("type = %q, want %q", result.Type, tc.want)
			}
			if result.MIME != tc.mime {
				t.Fatalf("mime = %q, want %q", result.MIME, tc.mime)
			}
		})
	}
}

func TestDetectHeadUnknown(t *testing.T) {
	for _, head := range [][]byte{nil, {}, []byte("plain text"), []byte("<svg xmlns=\"x\">")} {
		if _, err := DetectHead(head); !errors.Is(err, ErrUnknownType) {
			t.Fatalf("DetectHead(%q) err = %v, want ErrUnknownType", head, err)
		}
	}
}
