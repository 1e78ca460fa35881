package stylist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stylemart/internal/genai"
)

type FacialAnalysis struct {
	Gender    string `json:"gender"`
	Age       string `json:"age"`
	FaceShape string `json:"faceShape"`
	Mood      string `json:"mood"`
}

type StyleAdvice struct {
	FacialAnalysis         FacialAnalysis `json:"facialAnalysis"`
	StyleAdvice            string         `json:"styleAdvice"`
	RecommendedProductTags []string       `json:"recommendedProductTags"`
}

func (a *StyleAdvice) Validate() error {
	a.StyleAdvice = strings.TrimSpace(a.StyleAdvice)
	if a.StyleAdvice == "" {
		return errors.New("styleAdvice is empty")
	}
	tags := make([]string, 0, len(a.RecommendedProductTags))
	for _, t := range a.RecommendedProductTags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	a.RecommendedProductTags = tags
	return nil
}

const DefaultStyleAdvice = "I can see you in the photo! Based on what I observe, I'd suggest trying versatile pieces that can be mixed and matched easily. Consider classic colors like navy, white, and beige as your foundation, then add personality with accessories or statement pieces."

// FallbackStyleAdvice is returned when the photo could not be analyzed.
// A non-JSON prose answer from the model, when there is one, replaces the
// default advice text.
func FallbackStyleAdvice(prose string) StyleAdvice {
	advice := DefaultStyleAdvice
	if p := strings.TrimSpace(genai.StripFences(prose)); p != "" && !strings.HasPrefix(p, "{") && !strings.HasPrefix(p, "[") {
		advice = p
	}
	return StyleAdvice{
		FacialAnalysis: FacialAnalysis{
			Gender:    "Not detected",
			Age:       "Not detected",
			FaceShape: "Not detected",
			Mood:      "Not detected",
		},
		StyleAdvice:            advice,
		RecommendedProductTags: []string{"casual", "basics", "unisex"},
	}
}

const styleAdvisorPrompt = `You are an expert fashion stylist. Analyze this photo of a person and provide personalized fashion advice.

Please analyze the person's facial features and provide:

1. **Facial Analysis**:
   - Gender (Male, Female, or Non-binary)
   - Estimated Age (e.g., 20-25)
   - Face Shape (Oval, Round, Square, Heart)
   - Dominant Mood/Emotion (Happy, Neutral, Thoughtful)

2. **Style Advice**: Based on your analysis, provide concise fashion advice. Suggest styles, colors, and types of clothing or accessories that would complement the user's features.

3. **Product Tags**: Provide 3-5 product tags for filtering relevant items. Choose from: "men", "women", "unisex", "outerwear", "pants", "shoes", "casual", "accessories", "tops", "basics", "gaming", "fitness", "summer", "winter", "leather", "denim", "sports".

Please respond in this exact JSON format:
{
  "facialAnalysis": {
    "gender": "...",
    "age": "...",
    "faceShape": "...",
    "mood": "..."
  },
  "styleAdvice": "...",
  "recommendedProductTags": ["tag1", "tag2", "tag3"]
}`

// StyleAdvice analyzes a portrait photo given as a base64 data URI.
func (s *Service) StyleAdvice(ctx context.Context, photoDataURI string) (StyleAdvice, error) {
	photo, err := parseImage("photoDataUri", photoDataURI)
	if err != nil {
		return StyleAdvice{}, err
	}

	return generateStructured(ctx, s, structuredCall[StyleAdvice]{
		op:       "style_advice",
		prompt:   styleAdvisorPrompt,
		blobs:    []genai.Blob{photo},
		required: []string{"facialAnalysis", "styleAdvice", "recommendedProductTags"},
		fallback: FallbackStyleAdvice,
	})
}

const (
	InputImage = "image"
	InputText  = "text"
)

type SmartStylistInput struct {
	PhotoDataURI string `json:"photoDataUri"`
	Description  string `json:"description"`
	// Type is "image" or "text". Empty means image when a photo is present.
	Type string `json:"type"`
}

type MainItem struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Category string `json:"category"`
	Style    string `json:"style"`
	Fabric   string `json:"fabric"`
}

type Complementary struct {
	Item     string `json:"item"`
	Reason   string `json:"reason"`
	Category string `json:"category"`
}

type SmartStylistResult struct {
	MainItem      MainItem        `json:"mainItem"`
	Complementary []Complementary `json:"complementary"`
	ColorPalette  []string        `json:"colorPalette"`
	StyleNotes    string          `json:"styleNotes"`
	Confidence    float64         `json:"confidence"`
}

func (r *SmartStylistResult) Validate() error {
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", r.Confidence)
	}
	r.Complementary = emptyIfNil(r.Complementary)
	r.ColorPalette = emptyIfNil(r.ColorPalette)
	return nil
}

// FallbackConfidence marks a templated smart-stylist answer.
const FallbackConfidence = 0.7

// FallbackSmartStylist builds the templated answer. For text input the
// description becomes the main item name.
func FallbackSmartStylist(kind, description string) SmartStylistResult {
	name := "Fashion Item"
	if kind == InputText && description != "" {
		name = description
	}
	return SmartStylistResult{
		MainItem: MainItem{
			Name:     name,
			Color:    "Multi-colored",
			Category: "Clothing",
			Style:    "Versatile",
			Fabric:   "Mixed materials",
		},
		Complementary: []Complementary{
			{Item: "Classic neutral accessories", Reason: "Versatile pieces that complement most styles", Category: "accessories"},
			{Item: "Comfortable neutral footwear", Reason: "Pairs well with various outfit combinations", Category: "footwear"},
			{Item: "Layering pieces in complementary colors", Reason: "Adds depth and style flexibility", Category: "tops"},
		},
		ColorPalette: []string{"Neutral", "Earth tones", "Classic"},
		StyleNotes:   "This item offers great versatility. Focus on building a capsule wardrobe with complementary neutral pieces that can be mixed and matched. Add personality through accessories and consider the occasion when styling.",
		Confidence:   FallbackConfidence,
	}
}

const smartStylistTaskRules = `2. %s:
   - Match by style consistency (ethnic → traditional accessories, casual → modern pieces)
   - %s
   - Ensure seasonal and occasion appropriateness
   - %s

3. Provide a cohesive color palette that works with the %s

**Response Format (JSON only):**
{
  "mainItem": {
    "name": "%s",
    "color": "Primary color",
    "category": "Item category",
    "style": "Style classification",
    "fabric": "%s"
  },
  "complementary": [
    {
      "item": "Specific accessory/clothing name",
      "reason": "Why this pairs well",
      "category": "accessories/tops/bottoms/footwear"
    }
  ],
  "colorPalette": ["color1", "color2", "color3"],
  "styleNotes": "Overall styling advice and outfit combination tips",
  "confidence": %s
}

`

func smartStylistImagePrompt() string {
	return `You are an expert fashion stylist and computer vision specialist. Analyze this fashion item image and provide detailed styling recommendations.

**Your Task:**
1. Use computer vision to detect and identify:
   - Primary and secondary colors
   - Item category (kurti, shirt, dress, pants, skirt, etc.)
   - Style classification (casual, formal, ethnic, boho, minimalist, etc.)
   - Fabric type if visible (cotton, silk, denim, linen, etc.)
   - Design elements (embroidery, patterns, cuts, etc.)

` + fmt.Sprintf(smartStylistTaskRules,
		"Based on your analysis, suggest 3-4 matching accessories and complementary clothing items following these rules",
		"Apply color theory (complementary colors, analogous schemes, neutral pairings)",
		"Consider gender styling preferences and cultural context",
		"main item",
		"Detailed item description",
		"Fabric type if identifiable",
		"0.85",
	) + "Analyze the image and provide styling recommendations:"
}

func smartStylistTextPrompt(description string) string {
	return `You are an expert fashion stylist. Based on this text description of a fashion item, provide detailed styling recommendations.

**Item Description:** "` + description + `"

**Your Task:**
1. Analyze the described item to identify:
   - Colors mentioned or implied
   - Item category and style
   - Fabric type if mentioned
   - Occasion or style context

` + fmt.Sprintf(smartStylistTaskRules,
		"Suggest 3-4 matching accessories and complementary clothing items following these rules",
		"Apply color theory principles",
		"Consider cultural context if applicable",
		"described item",
		"Refined item description based on input",
		"Fabric type if mentioned",
		"0.80",
	) + "Provide styling recommendations based on the description:"
}

// SmartStylist suggests pieces that go with one item, described either by
// a photo or by text.
func (s *Service) SmartStylist(ctx context.Context, in SmartStylistInput) (SmartStylistResult, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "" {
		kind = InputText
		if strings.TrimSpace(in.PhotoDataURI) != "" {
			kind = InputImage
		}
	}

	call := structuredCall[SmartStylistResult]{
		op:       "smart_stylist",
		required: []string{"mainItem", "complementary", "confidence"},
	}

	switch kind {
	case InputImage:
		photo, err := parseImage("photoDataUri", in.PhotoDataURI)
		if err != nil {
			return SmartStylistResult{}, err
		}
		call.prompt = smartStylistImagePrompt()
		call.blobs = []genai.Blob{photo}
		call.fallback = func(string) SmartStylistResult { return FallbackSmartStylist(InputImage, "") }
	case InputText:
		description, ok := cleanText(in.Description)
		if !ok {
			return SmartStylistResult{}, &InputError{Field: "description", Message: "Invalid description provided"}
		}
		call.prompt = smartStylistTextPrompt(description)
		call.fallback = func(string) SmartStylistResult { return FallbackSmartStylist(InputText, description) }
	default:
		return SmartStylistResult{}, &InputError{Field: "type", Message: `type must be "image" or "text"`}
	}

	return generateStructured(ctx, s, call)
}
