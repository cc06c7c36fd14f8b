// This file is part of phoron - https://github.com/phoronlang/phoron
//
// Copyright 2026 The Phoron Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ngi holds small pieces of binary-writing plumbing shared by the
// code generator.
package ngi

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer so a long sequence of class-file field writes
// can ignore per-call errors and check once at the end: once Err is set,
// every subsequent Write is a no-op that keeps returning it.
type ErrWriter struct {
	w   io.Writer
	Err error
}

// NewErrWriter returns a new ErrWriter over w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// U1 writes a single big-endian byte.
func (w *ErrWriter) U1(v uint8) {
	w.Write([]byte{v})
}

// U2 writes a big-endian u2, the JVM class-file format's 16-bit field width.
func (w *ErrWriter) U2(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

// U4 writes a big-endian u4, the JVM class-file format's 32-bit field width.
func (w *ErrWriter) U4(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// Bytes writes p verbatim.
func (w *ErrWriter) Bytes(p []byte) {
	w.Write(p)
}
