package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPLN(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0,00 zł"},
		{"thousands", 2500, "2 500,00 zł"},
		{"fraction", 1234.5, "1 234,50 zł"},
		{"millions", 1234567.891, "1 234 567,89 zł"},
		{"below thousand", 999.99, "999,99 zł"},
		{"negative", -150, "-150,00 zł"},
		{"rounds", 0.005, "0,01 zł"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPLN(tt.amount))
		})
	}
}
