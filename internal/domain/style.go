package domain

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultStyle is used when generation is requested without a style
const DefaultStyle = "realistic_image"

const maxSuggestions = 3

// StyleSet is the allow-list of generation styles accepted by the API
type StyleSet struct {
	styles []string
}

// NewStyleSet builds an allow-list from the given identifiers
func NewStyleSet(styles []string) StyleSet {
	return StyleSet{styles: slices.Clone(styles)}
}

// DefaultStyles returns the allow-list published by the API
func DefaultStyles() StyleSet {
	return NewStyleSet(knownStyles)
}

// All returns the identifiers in declaration order
func (s StyleSet) All() []string {
	return slices.Clone(s.styles)
}

// Contains reports whether style is in the allow-list
func (s StyleSet) Contains(style string) bool {
	return slices.Contains(s.styles, style)
}

// Validate returns a *ValidationError when style is not allowed
func (s StyleSet) Validate(style string) error {
	if s.Contains(style) {
		return nil
	}
	return &ValidationError{
		Field:       "style",
		Value:       style,
		Allowed:     s.All(),
		Suggestions: s.Suggest(style),
	}
}

// Suggest returns up to three allowed styles that fuzzily match input
func (s StyleSet) Suggest(input string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}
	matches := fuzzy.Find(input, s.styles)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// StyleCategory groups styles for interactive selection
type StyleCategory struct {
	Name   string
	Styles []string
}

// Categories groups the allow-list the way the interactive flow presents it.
// The first category is the random "any" style.
func (s StyleSet) Categories() []StyleCategory {
	cats := []StyleCategory{
		{Name: "Any Style (Random)", Styles: []string{"any"}},
		{Name: "Realistic Image"},
		{Name: "Digital Illustration"},
		{Name: "Vector Illustration"},
	}
	for _, style := range s.styles {
		switch {
		case strings.HasPrefix(style, "realistic_image"):
			cats[1].Styles = append(cats[1].Styles, style)
		case strings.HasPrefix(style, "digital_illustration"):
			cats[2].Styles = append(cats[2].Styles, style)
		case strings.HasPrefix(style, "vector_illustration"):
			cats[3].Styles = append(cats[3].Styles, style)
		}
	}
	return cats
}

var knownStyles = []string{
	"any",

	// Realistic image
	"realistic_image",
	"realistic_image_mockup",
	"realistic_image_b_and_w",
	"realistic_image_enterprise",
	"realistic_image_hard_flash",
	"realistic_image_hdr",
	"realistic_image_natural_light",
	"realistic_image_studio_portrait",
	"realistic_image_motion_blur",
	"realistic_image_evening_light",
	"realistic_image_faded_nostalgia",
	"realistic_image_forest_life",
	"realistic_image_golden_hues",
	"realistic_image_intensity_hue",
	"realistic_image_mystic_naturalism",
	"realistic_image_natural_tones",
	"realistic_image_nightlife_shine",
	"realistic_image_organic_calm",
	"realistic_image_real_life_glow",
	"realistic_image_retro_realism",
	"realistic_image_retro_snapshot",
	"realistic_image_serene_fogscape",
	"realistic_image_urban_drama",
	"realistic_image_village_realism",
	"realistic_image_warm_folk",

	// Digital illustration
	"digital_illustration",
	"illustration_3d",
	"digital_illustration_seamless",
	"digital_illustration_pixel_art",
	"digital_illustration_3d",
	"digital_illustration_psychedelic",
	"digital_illustration_hand_drawn",
	"digital_illustration_grain",
	"digital_illustration_glow",
	"digital_illustration_80s",
	"digital_illustration_watercolor",
	"digital_illustration_voxel",
	"digital_illustration_infantile_sketch",
	"digital_illustration_2d_art_poster",
	"digital_illustration_kawaii",
	"digital_illustration_halloween_drawings",
	"digital_illustration_2d_art_poster_2",
	"digital_illustration_engraving_color",
	"digital_illustration_flat_air_art",
	"digital_illustration_hand_drawn_outline",
	"digital_illustration_handmade_3d",
	"digital_illustration_stickers_drawings",
	"digital_illustration_antiquarian",
	"digital_illustration_bold_fantasy",
	"digital_illustration_child_book",
	"digital_illustration_child_books",
	"digital_illustration_cover",
	"digital_illustration_crosshatch",
	"digital_illustration_digital_engraving",
	"digital_illustration_dreamlike_hues",
	"digital_illustration_expressionism",
	"digital_illustration_freehand_details",
	"digital_illustration_grain_20",
	"digital_illustration_graphic_intensity",
	"digital_illustration_hard_comics",
	"digital_illustration_long_shadow",
	"digital_illustration_modern_folk",
	"digital_illustration_multicolor",
	"digital_illustration_neon_calm",
	"digital_illustration_noir",
	"digital_illustration_nostalgic_pastel",
	"digital_illustration_outline_details",
	"digital_illustration_pastel_gradient",
	"digital_illustration_pastel_sketch",
	"digital_illustration_pop_art",
	"digital_illustration_pop_renaissance",
	"digital_illustration_quiet_curiosity",
	"digital_illustration_sketch_and_shade",
	"digital_illustration_street_art",
	"digital_illustration_tablet_sketch",
	"digital_illustration_urban_glow",
	"digital_illustration_urban_sketching",
	"digital_illustration_vanilla_dreams",
	"digital_illustration_young_adult_book",
	"digital_illustration_young_adult_book_2",

	// Vector illustration
	"vector_illustration",
	"vector_illustration_seamless",
	"vector_illustration_line_art",
	"vector_illustration_doodle_line_art",
	"vector_illustration_flat_2",
	"vector_illustration_70s",
	"vector_illustration_cartoon",
	"vector_illustration_kawaii",
	"vector_illustration_linocut",
	"vector_illustration_engraving",
	"vector_illustration_halloween_stickers",
	"vector_illustration_line_circuit",
	"vector_illustration_bold_stroke",
	"vector_illustration_chemistry",
	"vector_illustration_colored_stencil",
	"vector_illustration_contour_pop_art",
	"vector_illustration_cosmics",
	"vector_illustration_cutout",
	"vector_illustration_depressive",
	"vector_illustration_editorial",
	"vector_illustration_emotional_flat",
	"vector_illustration_infographical",
	"vector_illustration_marker_outline",
	"vector_illustration_mosaic",
	"vector_illustration_naivector",
	"vector_illustration_ornamenticute",
	"vector_illustration_roundish_flat",
	"vector_illustration_segmented_colors",
	"vector_illustration_sharp_contrast",
	"vector_illustration_thin",
	"vector_illustration_vector_photo",
	"vector_illustration_vivid_shapes",
}
