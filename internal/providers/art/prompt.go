package art

import (
	"strings"

	"pawprint/internal/domain"
)

func stylePrompt(style domain.StyleID) string {
	switch style {
	case domain.StyleGangster:
		return "a bold, exaggerated cartoon pet portrait wearing a thick gold chain, confident swagger, deep saturated colours, strong comic-book shading, slightly mischievous vibe, optional subtle sunglasses but keep the face clearly visible"
	case domain.StyleCartoon:
		return "a vibrant, high-end cartoon illustration inspired by Disney and Pixar, smooth rounded shapes, expressive large eyes, soft but saturated colours, clean outlines, glossy highlights, friendly cute proportions, premium sticker aesthetic, no jewellery or clothing"
	case domain.StyleGirlboss:
		return "a glamorous cartoon pet portrait with feminine styling, long curled eyelashes, soft rose-gold or pastel eyeshadow, subtle glossy highlights, cute confident head tilt, gentle pastel palette, sparkly eye glints, optional tiny heart-shaped cheek blush for charm, no necklaces or clothing"
	default:
		return "a high-quality stylised cartoon illustration with clean outlines and appealing colours"
	}
}

// BuildPrompt assembles the full image-edit prompt for a style. The reference
// photo carries the likeness, so the prompt concentrates on preservation rules
// and per-style accessories.
func BuildPrompt(style domain.StyleID) string {
	parts := []string{
		"Create " + stylePrompt(style) + " of the pet in the uploaded reference photo.",
		"Use the uploaded image as an exact reference for the pet's face, head shape, ears, body proportions and fur markings.",
		"Preserve the pet's base fur colour exactly as in the reference photo. Match coat colours, patches, patterns and markings.",
		"Preserve the pet's natural eye colour and nose colour.",
		"Remove collars, harnesses, leashes, toys, furniture or human hands from the photo.",
		"Remove any objects from the mouth including leads, toys or sticks.",
		"Focus on face + upper body, centred.",
		"Use a clean simple background (subtle gradient or colour). No scenery.",
		"Do NOT draw mugs, bottles, hands or other products.",
		"No unrealistic dyed fur colours. No neon fur.",
		"No text or logos.",
	}
	if style == domain.StyleGangster {
		parts = append(parts,
			"Add a single thick stylised gold chain around the pet's neck.",
			"Do NOT recolour the fur to resemble gold or orange, only the chain should be gold.",
			"No accessories besides the gold chain.",
		)
	} else {
		parts = append(parts,
			"Do not add any necklaces, jewellery, sunglasses, hats, clothes or accessories.",
		)
	}
	return strings.Join(parts, " ")
}
