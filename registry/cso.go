package registry

import "github.com/nao1215/surveydash/domain/model"

var (
	csoField = []Code{
		{"AO01", "Human rights"},
		{"AO02", "Digital rights"},
		{"AO03", "Civil liberties"},
		{"AO04", "Privacy and data protection"},
		{"AO05", "Anti-corruption"},
		{"AO06", "Migration"},
		{"AO07", "Environment"},
		{"AO08", "Other"},
	}
	// The French instance lists "Other" before "Environment".
	csoFieldFR = []Code{
		{"AO01", "Human rights"},
		{"AO02", "Digital rights"},
		{"AO03", "Civil liberties"},
		{"AO04", "Privacy and data protection"},
		{"AO05", "Anti-corruption"},
		{"AO06", "Migration"},
		{"AO07", "Other"},
		{"AO08", "Environment"},
	}

	csoStaff = []Code{
		{"AO01", "1-5"},
		{"AO02", "6-20"},
		{"AO03", "21-50"},
		{"AO04", "More than 50"},
		{"AO05", PreferNotToSay},
	}
)

func csoQuestions() []Question {
	questions := []Question{
		{Family: "field", Title: "Main field of work of your organisation", Kind: KindCategorical, Answers: csoField, Overrides: countryOverride(model.CountryFR, csoFieldFR)},
		{Family: "hr1", Title: "Number of staff (full-time equivalent)", Kind: KindCategorical, Answers: csoStaff},
		{Family: "hr2", Title: "Staff working on surveillance issues (full-time equivalent)", Kind: KindNumeric},
		multiSelect("hr3", "Which expertise does your organisation have in-house?", []Option{
			{"SQ01", "legal", "Legal"},
			{"SQ02", "tech", "Technical and IT security"},
			{"SQ03", "policy", "Policy and advocacy"},
			{"SQ04", "research", "Investigative research"},
			{"SQ05", "comms", "Communications"},
			{"SQ06", "none", "None of the above"},
		}),
	}
	questions = append(questions, sharedQuestions()...)
	questions = append(questions,
		Question{Family: "foi4", Title: "How helpful was the response to your request?", Kind: KindCategorical, Answers: csoFOI4, Overrides: countryOverride(model.CountryDE, csoFOI4DE)},
		multiSelect("foi5", "Why did your organisation not file requests?", foi5Options),
		Question{Family: "foi6", Title: "Further remarks on freedom of information", Kind: KindFreeText},
		likertMatrix("protectops1", "How often does your organisation use the following protective measures?", []Option{
			{"SQ01", "sectraining", "Digital security training"},
			{"SQ02", "encryption", "Encrypted communication"},
			{"SQ03", "deviceseparation", "Separate devices for sensitive work"},
			{"SQ04", "legaladvice", "Legal advice"},
			{"SQ05", "threatmodel", "Threat modelling"},
		}, frequency),
		Question{Family: "protectops2", Title: "Has your organisation changed its practices because of surveillance concerns?", Kind: KindCategorical, Answers: yesNo},
		multiSelect("protectops3", "Which tools does your organisation use?", protectops3Options),
		Question{Family: "protectleg1", Title: "Has your organisation considered legal action against surveillance?", Kind: KindCategorical, Answers: yesNo},
		Question{Family: "protectleg2", Raw: "protectleg2A", Title: "Has your organisation taken legal action against surveillance?", Kind: KindCategorical, Answers: yesNo},
		Question{Family: "constraintinter1", Raw: "contstraintinter1", Title: "Has your organisation experienced interference by intelligence agencies?", Kind: KindCategorical, Answers: yesNo},
		Question{Family: "constraintinter2", Raw: "contstraintinter2", Title: "How often does interference occur?", Kind: KindCategorical, Answers: frequency},
		Question{Family: "soc1", Title: "Public events on surveillance in the last 12 months", Kind: KindNumeric},
		Question{Family: "soc2", Title: "Publications on surveillance in the last 12 months", Kind: KindNumeric},
		Question{Family: "soc3", Title: "Surveillance is a priority topic for my organisation", Kind: KindCategorical, Answers: agreement},
		Question{Family: "soc4", Title: "Does your organisation cooperate with media on surveillance?", Kind: KindCategorical, Answers: yesNo},
		multiSelect("soc5", "Which channels does your organisation use to engage the public?", []Option{
			{"SQ01", "events", "Public events"},
			{"SQ02", "socialmedia", "Social media"},
			{"SQ03", "reports", "Reports"},
			{"SQ04", "litigation", "Strategic litigation"},
			{"SQ05", "lobbying", "Lobbying"},
			{"SQ06", "none", "None of these"},
		}),
		likertMatrix("attitude1", "To what extent do you agree with the following statements?", attitude1Options, agreement),
		Question{Family: "attitude2", Title: "How would you rate the oversight of intelligence agencies in your country?", Kind: KindCategorical, Answers: oversightRating},
		multiSelect("attitude3", "Which reforms should be prioritised?", attitude3Options),
		multiSelect("impact1", "How has surveillance affected your work?", impact1Options),
		multiSelect("impact2", "How has surveillance affected your partners?", impact2Options),
		Question{Family: "rankinst", Title: "Rank the following oversight actors by importance", Kind: KindRank, Positions: 6},
		Question{Family: "comments", Title: "Comments", Kind: KindFreeText},
	)
	return questions
}
