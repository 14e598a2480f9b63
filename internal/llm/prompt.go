package llm

import "fmt"

// OCRPrompt asks a vision model for the raw menu text only.
const OCRPrompt = `Extract all text from this menu image. Return only the raw text, preserving the structure as much as possible. Include all dish names, prices, descriptions, and ingredients if visible.`

// BuildMenuStructuringPrompt wraps (already truncated) menu text in the
// structuring instructions.
func BuildMenuStructuringPrompt(menuText string, maxItems int) string {
	return fmt.Sprintf(`
You are a menu processing assistant. Analyze this menu text and extract information into this EXACT JSON format:
{
  "restaurant_name": "Name if available, otherwise null",
  "menu_type": "Dinner/Lunch/Breakfast if identifiable, otherwise null",
  "cuisine_type": "Type of cuisine if identifiable, otherwise null",
  "menu_items": [
    {
      "dish_name": "Item Name",
      "description": "Full description of the dish",
      "ingredients": ["Ingredient1", "Ingredient2"],
      "allergens": ["Allergen1", "Allergen2"],
      "price": 12.99,
      "category": "Appetizer/Entree/Dessert/etc",
      "dietary_tags": ["Vegetarian", "Vegan", "Gluten-Free"]
    }
  ]
}

Rules:
- Return ONLY valid JSON with no additional text or formatting
- Extract ingredients from descriptions if not explicitly listed
- Identify common allergens (dairy, nuts, gluten, shellfish, etc.)
- Format prices as numbers without currency symbols
- Use null for unknown values
- Limit to %d menu items maximum, prioritizing clearer items
- Extract any dietary information (vegan, gluten-free, etc.)
- Categorize items if categories exist in the menu

Menu text:
%s
`, maxItems, menuText)
}
