package storage

import "github.com/keybase/go-codec/codec"

func codecHandle() *codec.MsgpackHandle {
	var mh codec.MsgpackHandle
	mh.WriteExt = true
	return &mh
}

func encodeCanonical(src interface{}) (dst []byte, err error) {
	ch := codecHandle()
	ch.Canonical = true
	err = codec.NewEncoderBytes(&dst, ch).Encode(src)
	return dst, err
}

func decode(dst interface{}, src []byte) error {
	return codec.NewDecoderBytes(src, codecHandle()).Decode(dst)
}
