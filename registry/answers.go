package registry

import "github.com/nao1215/surveydash/domain/model"

// Answer sets shared by several questions. Slices are never mutated after init.
var (
	yesNo = []Code{
		{"AO01", "Yes"},
		{"AO02", "No"},
		{"AO03", DontKnow},
		{"AO04", PreferNotToSay},
	}

	frequency = []Code{
		{"AO01", "Always"},
		{"AO02", "Often"},
		{"AO03", "Sometimes"},
		{"AO04", "Rarely"},
		{"AO05", "Never"},
		{"AO06", DontKnow},
	}

	agreement = []Code{
		{"AO01", "Strongly agree"},
		{"AO02", "Agree"},
		{"AO03", "Neither agree nor disagree"},
		{"AO04", "Disagree"},
		{"AO05", "Strongly disagree"},
		{"AO06", DontKnow},
		{"AO07", PreferNotToSay},
	}

	expertiseLevel = []Code{
		{"AO01", "Very high"},
		{"AO02", "High"},
		{"AO03", "Moderate"},
		{"AO04", "Low"},
		{"AO05", "Very low"},
		{"AO06", DontKnow},
	}

	foiOutcome = []Code{
		{"AO01", "Fully granted"},
		{"AO02", "Partially granted"},
		{"AO03", "Refused"},
		{"AO04", "Still pending"},
		{"AO05", DontKnow},
	}

	oversightRating = []Code{
		{"AO01", "Very good"},
		{"AO02", "Good"},
		{"AO03", "Poor"},
		{"AO04", "Very poor"},
		{"AO05", DontKnow},
	}
)

// CSO foi4 has no AO02 in any country instance. The German instance swapped the two
// sentinel answers, so AO07 must be decoded per country.
var (
	csoFOI4 = []Code{
		{"AO01", "Very helpful"},
		{"AO03", "Helpful in parts"},
		{"AO04", "Not very helpful"},
		{"AO05", "Not helpful at all"},
		{"AO06", DontKnow},
		{"AO07", PreferNotToSay},
	}
	csoFOI4DE = []Code{
		{"AO01", "Very helpful"},
		{"AO03", "Helpful in parts"},
		{"AO04", "Not very helpful"},
		{"AO05", "Not helpful at all"},
		{"AO06", PreferNotToSay},
		{"AO07", DontKnow},
	}

	mediaFOI4 = []Code{
		{"AO01", "Very helpful"},
		{"AO02", "Helpful in parts"},
		{"AO03", "Not helpful at all"},
		{"AO04", DontKnow},
		{"AO05", PreferNotToSay},
	}
)

// Options shared by both variants.
var (
	foi5Options = []Option{
		{"SQ01", "notaware", "Not aware of the possibility"},
		{"SQ02", "futile", "Expected a refusal"},
		{"SQ03", "costly", "Too costly"},
		{"SQ04", "timeconsuming", "Too time-consuming"},
		{"SQ05", "fear", "Fear of negative consequences"},
		{"SQ06", "other", "Other"},
	}

	protectops3Options = []Option{
		{"SQ01", "e2e", "End-to-end encrypted messengers"},
		{"SQ02", "vpn", "VPN"},
		{"SQ03", "tor", "Tor"},
		{"SQ04", "pgp", "PGP e-mail encryption"},
		{"SQ05", "securedrop", "Secure drop systems"},
		{"SQ06", "none", "None of these"},
	}

	attitude1Options = []Option{
		{"SQ01", "necessary", "Surveillance is necessary for national security"},
		{"SQ02", "oversight", "Current oversight is effective"},
		{"SQ03", "chilling", "Surveillance has a chilling effect on my work"},
		{"SQ04", "reform", "Surveillance law needs reform"},
	}

	attitude3Options = []Option{
		{"SQ01", "judicial", "Prior judicial authorisation"},
		{"SQ02", "transparency", "Transparency reports"},
		{"SQ03", "notification", "Notification of targets"},
		{"SQ04", "whistleblower", "Whistleblower protection"},
		{"SQ05", "remedy", "Effective remedies"},
	}

	impact1Options = []Option{
		{"SQ01", "selfcensor", "Self-censorship"},
		{"SQ02", "sources", "Loss of sources or contacts"},
		{"SQ03", "funding", "Funding difficulties"},
		{"SQ04", "stress", "Psychological stress"},
		{"SQ05", "none", "None of these"},
	}

	impact2Options = []Option{
		{"SQ01", "partners", "Partners withdrew from cooperation"},
		{"SQ02", "donors", "Donors raised concerns"},
		{"SQ03", "public", "Public became reluctant to engage"},
		{"SQ04", "none", "None of these"},
	}
)

// sharedQuestions are asked in both variants with identical codes.
func sharedQuestions() []Question {
	return []Question{
		{Family: "expertise1", Title: "Years of experience with intelligence-related issues", Kind: KindNumeric},
		{Family: "expertise2", Title: "Self-assessed expertise on intelligence oversight", Kind: KindCategorical, Answers: expertiseLevel},
		{Family: "foi1", Title: "Have you filed freedom of information requests to intelligence agencies?", Kind: KindCategorical, Answers: yesNo},
		{Family: "foi2", Title: "How many requests did you file?", Kind: KindNumeric},
		{Family: "foi3", Title: "What was the outcome of your last request?", Kind: KindCategorical, Answers: foiOutcome},
	}
}

func likertMatrix(family, title string, options []Option, answers []Code) Question {
	return Question{Family: family, Title: title, Kind: KindCategorical, Options: options, Answers: answers}
}

func multiSelect(family, title string, options []Option) Question {
	return Question{Family: family, Title: title, Kind: KindMultiSelect, Options: options}
}

func countryOverride(c model.Country, codes []Code) map[model.Country][]Code {
	return map[model.Country][]Code{c: codes}
}
