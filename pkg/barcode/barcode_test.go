package barcode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-inventory/pkg/barcode"
)

func TestCheckDigit_CodigosConocidos(t *testing.T) {
	// EAN-13 4006381333931 y UPC-A 036000291452 son códigos reales
	assert.Equal(t, 1, barcode.CheckDigit("400638133393"))
	assert.Equal(t, 2, barcode.CheckDigit("03600029145"))
}

func TestGenerate_FormatosValidos(t *testing.T) {
	g := barcode.NewGenerator(42)
	cases := []struct {
		kind   string
		length int
		prefix string
	}{
		{barcode.TypeEAN13, 13, "20"},
		{barcode.TypeUPC, 12, "0"},
		{barcode.TypeInternal, 10, "INT"},
		{"", 13, "20"},
	}
	for _, tc := range cases {
		for i := 0; i < 50; i++ {
			code, err := g.Generate(tc.kind)
			require.NoError(t, err)
			assert.Len(t, code, tc.length)
			assert.True(t, strings.HasPrefix(code, tc.prefix), code)
			assert.True(t, barcode.Validate(code), "código generado inválido: %s", code)
		}
	}
}

func TestGenerate_TipoDesconocido(t *testing.T) {
	_, err := barcode.Generate("QR")
	assert.Error(t, err)
}

func TestGenerate_Reproducible(t *testing.T) {
	a, _ := barcode.NewGenerator(7).Generate(barcode.TypeEAN13)
	b, _ := barcode.NewGenerator(7).Generate(barcode.TypeEAN13)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	assert.True(t, barcode.Validate("4006381333931"))
	assert.True(t, barcode.Validate("036000291452"))
	assert.True(t, barcode.Validate("INT1234567"))

	assert.False(t, barcode.Validate(""))
	assert.False(t, barcode.Validate("4006381333932"), "dígito verificador incorrecto")
	assert.False(t, barcode.Validate("036000291453"))
	assert.False(t, barcode.Validate("INT123"))
	assert.False(t, barcode.Validate("12345"))
	assert.False(t, barcode.Validate("40063813339A1"))
}
