package api

import (
	"io"

	"github.com/keybase/go-codec/codec"
	"github.com/pkg/errors"
)

func jsonHandle() *codec.JsonHandle {
	var h codec.JsonHandle
	h.Canonical = true
	return &h
}

// Encode renders o as JSON.
func Encode(o interface{}) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, jsonHandle()).Encode(o); err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	return out, nil
}

// Decode parses JSON from src into dest.
func Decode(dest interface{}, src []byte) error {
	return errors.Wrap(codec.NewDecoderBytes(src, jsonHandle()).Decode(dest), "decode json")
}

// DecodeFrom reads all of r and parses it into dest.
func DecodeFrom(dest interface{}, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	return Decode(dest, b)
}
