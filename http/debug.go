package http

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

func doSafe(f func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()

	f()

	return nil
}

// doDebug runs fn while teeing os.Stdout and os.Stderr into buffers.
func doDebug(fn func()) (stdout string, stderr string, err error) {
	originStdout := os.Stdout
	originStderr := os.Stderr

	defer func() {
		os.Stdout = originStdout
		os.Stderr = originStderr
	}()

	stdoutPipeReader, stdoutPipeWriter, err := os.Pipe()
	if err != nil {
		return "", "", err
	}
	defer stdoutPipeReader.Close()
	defer stdoutPipeWriter.Close()
	stderrPipeReader, stderrPipeWriter, err := os.Pipe()
	if err != nil {
		return "", "", err
	}
	defer stderrPipeReader.Close()
	defer stderrPipeWriter.Close()

	os.Stdout = stdoutPipeWriter
	os.Stderr = stderrPipeWriter

	var (
		stdoutBuf bytes.Buffer
		stderrBuf bytes.Buffer
	)
	stdoutMultiWriter := io.MultiWriter(&stdoutBuf, originStdout)
	stderrMultiWriter := io.MultiWriter(&stderrBuf, originStderr)

	// copy the output in a separate goroutine so printing can't block indefinitely
	copyErrCh := make(chan error, 2)
	go func() {
		_, err := io.Copy(stdoutMultiWriter, stdoutPipeReader)
		copyErrCh <- err
	}()
	go func() {
		_, err := io.Copy(stderrMultiWriter, stderrPipeReader)
		copyErrCh <- err
	}()

	panicErr := doSafe(fn)

	if err := stdoutPipeWriter.Close(); err != nil {
		return "", "", err
	}
	if err := stderrPipeWriter.Close(); err != nil {
		return "", "", err
	}
	for i := 0; i < 2; i++ {
		if err := <-copyErrCh; err != nil {
			return "", "", err
		}
	}

	return stdoutBuf.String(), stderrBuf.String(), panicErr
}
