// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Capitalization options for Font.Caps.
const (
	CapsUpper = "ALL CAPS"
	CapsLower = "all lowercase"
	CapsTitle = "Title Case"
	CapsNone  = "None (Default)"
)

// CapsOptions lists the capitalization choices in prompt order.
var CapsOptions = []string{CapsUpper, CapsLower, CapsTitle, CapsNone}

// Icon tint options for widget.tintIcons.
const (
	IconsNever  = "Never"
	IconsAlways = "Always"
	IconsDark   = "In dark mode"
	IconsLight  = "In light mode"
)

// =============================================================================
// SCHEMA
// =============================================================================

// Definition describes one setting.
type Definition struct {
	Key         string
	Name        string
	Description string
	Type        Type
	Default     Value
	// Options are the enum choices.
	Options []string
	// Choices are the multiselect options.
	Choices []Option
}

// Category is an ordered group of definitions.
type Category struct {
	Key   string
	Name  string
	Items []*Definition
}

// Item returns the definition with the given key, or nil.
func (c *Category) Item(key string) *Definition {
	for _, d := range c.Items {
		if d.Key == key {
			return d
		}
	}
	return nil
}

// Schema is the ordered set of categories.
type Schema struct {
	Categories []*Category
}

// Category returns the category with the given key, or nil.
func (s *Schema) Category(key string) *Category {
	for _, c := range s.Categories {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// Definition returns the definition at category/key, or nil.
func (s *Schema) Definition(category, key string) *Definition {
	if c := s.Category(category); c != nil {
		return c.Item(key)
	}
	return nil
}

func text(key, name, def, desc string) *Definition {
	return &Definition{Key: key, Name: name, Description: desc, Type: TypeText, Default: Text(def)}
}

func enum(key, name, def, desc string, options ...string) *Definition {
	return &Definition{Key: key, Name: name, Description: desc, Type: TypeEnum, Default: Enum(def), Options: options}
}

func boolean(key, name string, def bool, desc string) *Definition {
	return &Definition{Key: key, Name: name, Description: desc, Type: TypeBool, Default: Bool(def)}
}

func fonts(key, name string, def Font, desc string) *Definition {
	return &Definition{Key: key, Name: name, Description: desc, Type: TypeFonts, Default: def}
}

func multival(key, name, desc string, keys ...string) *Definition {
	fields := make(Multival, len(keys))
	for i, k := range keys {
		fields[i] = Field{Key: k}
	}
	return &Definition{Key: key, Name: name, Description: desc, Type: TypeMultival, Default: fields}
}

// DefaultSchema returns a fresh copy of the built-in widget schema.
func DefaultSchema() *Schema {
	return &Schema{Categories: []*Category{
		{
			Key:  "widget",
			Name: "Overall settings",
			Items: []*Definition{
				text("locale", "Locale code", "", "Leave blank to match the system locale."),
				enum("units", "Units", "metric", "Use imperial for Fahrenheit or metric for Celsius.", "imperial", "metric"),
				enum("preview", "Widget preview size", "large", "Set the size of the widget preview.", "small", "medium", "large"),
				text("padding", "Item padding", "5", "The padding around each item. This also determines the approximate widget padding. Default is 5."),
				multival("widgetPadding", "Custom widget padding",
					"The padding around the entire widget. When blank, the item padding determines these values.",
					"top", "left", "bottom", "right"),
				enum("tintIcons", "Icons match text color", IconsNever,
					"Decide when icons should match the color of the text around them.",
					IconsNever, IconsAlways, IconsDark, IconsLight),
				text("updateLocation", "Location update frequency", "60",
					"How often, in minutes, to update the current location. Set to 0 to constantly update, or -1 to never update."),
				boolean("instantDark", "Instant dark mode", false,
					"Use adaptive colors that follow the terminal background instead of choosing one palette when rendering."),
			},
		},
		{
			Key:  "font",
			Name: "Text sizes, colors, and fonts",
			Items: []*Definition{
				fonts("defaultText", "Default font settings",
					Font{Size: "14", Color: "ffffff", Font: "regular"},
					"These settings apply to all text on the widget that doesn't have a customized value."),
				fonts("greeting", "Greeting", Font{Size: "18", Color: "1aff05", Dark: "1aff05", Font: "semibold"}, ""),
				fonts("smallDate", "Small date", Font{Size: "17", Font: "semibold"}, ""),
				fonts("largeDate1", "Large date, line 1", Font{Size: "30", Font: "light"}, ""),
				fonts("largeDate2", "Large date, line 2", Font{Size: "30", Font: "light"}, ""),
				fonts("customText", "User-defined text items", Font{Size: "14"}, ""),
				fonts("covid", "COVID data", Font{Size: "15", Color: "1aff05", Dark: "1aff05", Font: "medium"}, ""),
			},
		},
		{
			Key:  "date",
			Name: "Date",
			Items: []*Definition{
				boolean("dynamicDateSize", "Dynamic date size", true,
					"If set to true, the date will become smaller when events are displayed."),
				enum("staticDateSize", "Static date size", "small",
					"Set the date size shown when dynamic date size is not enabled.", "small", "large"),
				text("smallDateFormat", "Small date format", "EEEE, MMMM d", ""),
				text("largeDateLineOne", "Large date format, line 1", "EEEE,", ""),
				text("largeDateLineTwo", "Large date format, line 2", "MMMM d", ""),
			},
		},
		{
			Key:  "covid",
			Name: "COVID data",
			Items: []*Definition{
				text("Province", "Province for COVID information", "NB", ""),
				text("Zone", "Zone for COVID information", "1", ""),
				text("covidtext", "COVID data text",
					"Cases:{CurrentCaseCount}, Deaths:{CurrentDeaths}, Recoveries:{CurrentRecovered}, Tests:{CurrentTests}",
					"Each {token} is replaced with the matching attribute from the zone data."),
				text("url", "URL to open when the COVID data is selected", "https://covid19.who.int", ""),
			},
		},
		{
			Key:  "symbol",
			Name: "Symbols",
			Items: []*Definition{
				text("size", "Size", "18", "Size of each symbol. Leave blank to fill the width of the column."),
				multival("padding", "Padding",
					"The padding around each symbol. Leave blank to use the default padding.",
					"top", "left", "bottom", "right"),
				text("tintColor", "Tint color", "ffffff",
					"The hex code color value to tint the symbols. Leave blank for the default tint."),
			},
		},
	}}
}
