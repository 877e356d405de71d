package gemini

import "google.golang.org/genai"

// Fallacy is one logical fallacy finding.
type Fallacy struct {
	Name        string `json:"fallacy_name"`
	Explanation string `json:"explanation"`
	Quote       string `json:"quote"`
}

// GrammarIssue is one grammar finding, including a suggested correction.
type GrammarIssue struct {
	Type        string `json:"error_type"`
	Explanation string `json:"explanation"`
	Correction  string `json:"correction"`
	Quote       string `json:"quote"`
}

var fallacyListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"fallacy_name": {Type: genai.TypeString, Description: "Name of the logical fallacy."},
			"explanation":  {Type: genai.TypeString, Description: "Why the quoted passage commits this fallacy."},
			"quote":        {Type: genai.TypeString, Description: "The verbatim passage containing the fallacy."},
		},
		Required: []string{"fallacy_name", "explanation", "quote"},
	},
}

var grammarListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"error_type":  {Type: genai.TypeString, Description: "Category of the grammatical error."},
			"explanation": {Type: genai.TypeString, Description: "Why the quoted passage is incorrect."},
			"correction":  {Type: genai.TypeString, Description: "The suggested corrected form."},
			"quote":       {Type: genai.TypeString, Description: "The verbatim passage containing the error."},
		},
		Required: []string{"error_type", "explanation", "correction", "quote"},
	},
}
