package config

import (
	"errors"
	"fmt"
	"strings"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
)

// ErrInvalidDimension возвращается для измерения, не соответствующего формату Name=Value.
var ErrInvalidDimension = errors.New("dimension must be in Name=Value form")

// DimensionList — список фиксированных измерений, задаваемых флагом -dimension.
//
// Реализует интерфейс flag.Value; флаг можно указывать несколько раз.
type DimensionList []models.Dimension

// String возвращает измерения в виде Name=Value через запятую.
func (d *DimensionList) String() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(*d))
	for _, dim := range *d {
		parts = append(parts, dim.Name+"="+dim.Value)
	}
	return strings.Join(parts, ",")
}

// Set разбирает строку Name=Value и добавляет измерение в список.
//
// Пустое имя или отсутствие "=" — ошибка ErrInvalidDimension.
func (d *DimensionList) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	*d = append(*d, models.Dimension{Name: name, Value: strings.TrimSpace(value)})
	return nil
}

// ParseDimensions разбирает список измерений через запятую.
func ParseDimensions(s string) (DimensionList, error) {
	var list DimensionList
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		if err := list.Set(part); err != nil {
			return nil, err
		}
	}
	return list, nil
}
