// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"io"
	"os"
)

// fileTraceSink tees trace output to stdout and, when requested, to a
// trace file, through a single writer goroutine so a slow disk never
// stalls the (otherwise single-threaded) backend's own Tick calls. It
// carries no simulator timing state; Write only ever queues a line.
type fileTraceSink struct {
	lines chan []byte
	done  chan struct{}
	file  *os.File
}

// newFileTraceSink opens path (if non-empty) and starts the draining
// goroutine. Close must be called to flush and release the file.
func newFileTraceSink(path string) (*fileTraceSink, error) {
	var f *os.File
	if path != "" {
		opened, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		f = opened
	}

	s := &fileTraceSink{
		lines: make(chan []byte, 256),
		done:  make(chan struct{}),
		file:  f,
	}
	go s.run()
	return s, nil
}

func (s *fileTraceSink) run() {
	defer close(s.done)
	for line := range s.lines {
		os.Stdout.Write(line)
		if s.file != nil {
			s.file.Write(line)
		}
	}
}

// Write implements io.Writer, queuing a copy of p for the draining
// goroutine. It never blocks the caller on file I/O directly.
func (s *fileTraceSink) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	s.lines <- cp
	return len(p), nil
}

// Close drains any queued lines, waits for the goroutine to exit, and
// closes the underlying file, if any.
func (s *fileTraceSink) Close() error {
	close(s.lines)
	<-s.done
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

var _ io.Writer = (*fileTraceSink)(nil)
