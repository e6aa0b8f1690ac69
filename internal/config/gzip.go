package config

import (
	"bytes"
	"compress/gzip"
	"io"
)

// GzipCompress сжимает data в формат gzip.
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := GzipCompressTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GzipCompressTo пишет сжатое представление data в w.
func GzipCompressTo(w io.Writer, data []byte) error {
	gz := gzip.NewWriter(w)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	return gz.Close()
}

// GzipDecompress распаковывает gzip-поток из r.
func GzipDecompress(r io.Reader) ([]byte, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, gz); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
