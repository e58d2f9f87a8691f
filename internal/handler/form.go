package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
)

// в памяти держим до 8 MiB формы, остальное multipart сбрасывает во временные файлы
const multipartMemory = 8 << 20

func parseMultipart(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("malformed multipart form: %w", domain.ErrInvalidArgument)
}

// formStringList разбирает поле формы с JSON-массивом строк; пустое поле — пустой список
func formStringList(r *http.Request, field string) ([]string, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("field %s must be a JSON array of strings: %w", field, domain.ErrInvalidArgument)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func formFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

func readUpload(fh *multipart.FileHeader) (usecase.MediaUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return usecase.MediaUpload{}, fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return usecase.MediaUpload{}, fmt.Errorf("read uploaded file %s: %w", fh.Filename, err)
	}
	return usecase.MediaUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", name, domain.ErrInvalidArgument)
	}
	return v, nil
}

func parseIntParam(raw, name string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, domain.ErrInvalidArgument)
	}
	return v, nil
}
