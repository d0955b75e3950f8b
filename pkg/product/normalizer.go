package product

import (
	"Markit-Pantry/entities"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	NoProductName      = "No product name"
	OutsideProductName = "My product (outside external database)"
	NoEcoScore         = "No ecoscore"
	NoCO2Score         = "No co2 score"
	NoImageURL         = "No image url"
	NoInformation      = "No information"
	ImageNotAvailable  = "Image is not available (outside external database)"
	NoLabelTag         = "No label tag (outside external database)"

	LabelNoPalmOil = "en:no-palm-oil"
	LabelVegan     = "en:vegan"
)

// Lookup is the raw product object returned by the food database for one
// barcode. A nil *Lookup means the database had nothing usable.
type Lookup struct {
	raw gjson.Result
}

func NewLookup(product gjson.Result) *Lookup {
	if !product.IsObject() {
		return nil
	}
	return &Lookup{raw: product}
}

// ParseLookup accepts the JSON text of a product object.
func ParseLookup(productJSON string) *Lookup {
	if !gjson.Valid(productJSON) {
		return nil
	}
	return NewLookup(gjson.Parse(productJSON))
}

func (l *Lookup) text(path string) (string, bool) {
	v := l.raw.Get(path)
	if !v.Exists() || v.Type == gjson.Null || v.IsObject() || v.IsArray() {
		return "", false
	}
	s := strings.TrimSpace(v.String())
	return s, s != ""
}

func (l *Lookup) labels() []string {
	tags := l.raw.Get("labels_tags")
	out := []string{}
	if !tags.IsArray() {
		return out
	}
	for _, tag := range tags.Array() {
		if s := strings.TrimSpace(tag.String()); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}

// Record is the canonical product derived from a lookup.
type Record struct {
	Name        string
	EcoScore    string
	CO2Estimate string
	ImageURL    string
	Labels      []string
	LabelsKnown bool
	HasPalmOil  entities.TriState
	IsVegan     entities.TriState
}

// textField is an ordered list of candidate paths with a default for each
// tier: the lookup exists but lacks every path, or there is no lookup.
type textField struct {
	paths    []string
	inResult string
	noResult string
}

var (
	nameField = textField{
		paths: []string{
			"product_name",
			"product_name_en",
			"product_name_de",
			"product_name_it",
			"product_name_pl",
			"product_name_fr",
			"product_name_lt",
			"product_name_ru",
		},
		inResult: NoProductName,
		noResult: NoProductName,
	}
	ecoScoreField = textField{
		paths:    []string{"ecoscore_grade"},
		inResult: NoEcoScore,
		noResult: NoInformation,
	}
	co2Field = textField{
		paths:    []string{"ecoscore_data.agribalyse.co2_total"},
		inResult: NoCO2Score,
		noResult: NoInformation,
	}
	imageField = textField{
		paths:    []string{"image_url"},
		inResult: NoImageURL,
		noResult: ImageNotAvailable,
	}
)

func (f textField) extract(l *Lookup) string {
	if l == nil {
		return f.noResult
	}
	for _, path := range f.paths {
		if v, ok := l.text(path); ok {
			return v
		}
	}
	return f.inResult
}

// Normalize builds a Record from a lookup. It never fails: absent fields
// fall back to sentinels. Palm oil is assumed present unless the labels
// explicitly say otherwise.
func Normalize(barcode string, lookup *Lookup) Record {
	if lookup == nil {
		name := nameField.noResult
		if strings.TrimSpace(barcode) == "" {
			name = OutsideProductName
		}
		return Record{
			Name:        name,
			EcoScore:    ecoScoreField.noResult,
			CO2Estimate: co2Field.noResult,
			ImageURL:    imageField.noResult,
			Labels:      []string{NoLabelTag},
			LabelsKnown: false,
			HasPalmOil:  entities.TriStateUnknown,
			IsVegan:     entities.TriStateUnknown,
		}
	}

	labels := lookup.labels()
	return Record{
		Name:        nameField.extract(lookup),
		EcoScore:    ecoScoreField.extract(lookup),
		CO2Estimate: co2Field.extract(lookup),
		ImageURL:    imageField.extract(lookup),
		Labels:      labels,
		LabelsKnown: true,
		HasPalmOil:  entities.TriStateOf(!slices.Contains(labels, LabelNoPalmOil)),
		IsVegan:     entities.TriStateOf(slices.Contains(labels, LabelVegan)),
	}
}
