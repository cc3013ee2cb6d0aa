package dataprocessing

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "bidcompare/internal/errors"
	"bidcompare/internal/tabular"
	"bidcompare/pkg/contracts/domain"
)

// Document formats
const (
	FormatXML   = "xml"
	FormatExcel = "excel"
	FormatCSV   = "csv"
)

// DocumentFormat classifies a file by extension. Anything that is neither
// XML nor a workbook is read as delimited text.
func DocumentFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xml":
		return FormatXML
	case ".xlsx", ".xlsm", ".xls":
		return FormatExcel
	default:
		return FormatCSV
	}
}

// ParseDocument turns one document into canonical line items. For NS 3459
// documents the sender company name is returned as a provider name hint;
// it is empty otherwise.
func ParseDocument(name string, data []byte) (string, []domain.LineItem, error) {
	if DocumentFormat(name) == FormatXML {
		items, err := ParseNS3459(data, name)
		if err != nil {
			return "", nil, err
		}
		return ExtractSenderName(data), items, nil
	}

	table, err := tabular.Read(name, data)
	if err != nil {
		return "", nil, apperrors.NewReadError(fmt.Sprintf("Could not read %s", name), err).
			WithContext("file", name)
	}
	return "", NormalizeTable(table), nil
}
