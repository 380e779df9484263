package postgis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var wktNoise = regexp.MustCompile(`[a-zA-Z()]+`)

// Point - географическая точка. Alt == nil означает 2D-точку.
type Point struct {
	Lat float64
	Lng float64
	Alt *float64
}

func NewPoint(lat, lng float64) Point {
	return Point{Lat: lat, Lng: lng}
}

func NewPointZ(lat, lng, alt float64) Point {
	return Point{Lat: lat, Lng: lng, Alt: &alt}
}

func (p Point) Is3D() bool {
	return p.Alt != nil
}

// Pair - тело координат WKT: "lng lat" или "lng lat alt".
func (p Point) Pair() string {
	parts := []string{formatCoord(p.Lng), formatCoord(p.Lat)}
	if p.Is3D() {
		parts = append(parts, formatCoord(*p.Alt))
	}
	return strings.Join(parts, " ")
}

// WKT кодирует точку: POINT(lng lat) или POINT Z(lng lat alt).
func (p Point) WKT() string {
	if p.Is3D() {
		return "POINT Z(" + p.Pair() + ")"
	}
	return "POINT(" + p.Pair() + ")"
}

func (p Point) String() string {
	return p.WKT()
}

// JSON-представление в порядке WKT: [lng, lat(, alt)].
func (p Point) Coordinates() []float64 {
	coords := []float64{p.Lng, p.Lat}
	if p.Is3D() {
		coords = append(coords, *p.Alt)
	}
	return coords
}

// Encode - сокращение для Point{...}.WKT().
func Encode(lat, lng float64, alt *float64) string {
	return Point{Lat: lat, Lng: lng, Alt: alt}.WKT()
}

// Decode разбирает WKT (или голую пару "lng lat[ alt]"), отбрасывая буквы и скобки.
func Decode(text string) (Point, error) {
	tokens := strings.Fields(wktNoise.ReplaceAllString(text, " "))
	if len(tokens) < 2 || len(tokens) > 3 {
		return Point{}, fmt.Errorf("postgis: malformed point %q", text)
	}

	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Point{}, fmt.Errorf("postgis: malformed coordinate %q: %w", tok, err)
		}
		values[i] = v
	}

	p := Point{Lng: values[0], Lat: values[1]}
	if len(values) == 3 {
		alt := values[2]
		p.Alt = &alt
	}
	return p, nil
}

// formatCoord печатает число без хвостовых нулей и точки: 10.0 -> "10", 20.250 -> "20.25".
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
