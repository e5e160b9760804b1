package model

// RoleMap maps host component type names to the spoken role key appended to
// focus announcements ("Play, button").
var RoleMap = map[string]string{
	"Button":         "button",
	"CustomButton":   "button",
	"Toggle":         "checkbox",
	"Dropdown":       "dropdown",
	"TMP_Dropdown":   "dropdown",
	"InputField":     "text_field",
	"TMP_InputField": "text_field",
	"Slider":         "slider",
	"Scrollbar":      "scrollbar",
}

// rolePrecedence orders components when an object carries several; the most
// specific control wins over the generic button.
var rolePrecedence = []string{
	"TMP_InputField", "InputField",
	"TMP_Dropdown", "Dropdown",
	"Toggle", "Slider", "Scrollbar",
	"CustomButton", "Button",
}

// MapRole converts a host component type to a role key. Unknown components map to "".
func MapRole(component string) string {
	return RoleMap[component]
}

// RoleOf returns the role key for the object's most specific interactive component.
func RoleOf(o *Object) string {
	if o == nil {
		return ""
	}
	if o.RichInput != nil || o.Input != nil {
		return "text_field"
	}
	for _, c := range rolePrecedence {
		if o.HasComponent(c) {
			return RoleMap[c]
		}
	}
	return ""
}
