// Package textutil normaliza texto para búsquedas insensibles a tildes y
// diacríticos. Los nombres de producto mezclan español y vietnamita
// ("cái", "Chưa phân loại"), así que un ILIKE directo no alcanza.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // descarta marcas combinantes (tildes)
	norm.NFC,
)

// Fold devuelve s en minúsculas y sin diacríticos, para comparar o buscar.
// Si la transformación falla devuelve s en minúsculas sin más.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
