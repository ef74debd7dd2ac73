package registry

import "github.com/nao1215/surveydash/domain/model"

var (
	mediaType = []Code{
		{"AO01", "Newspaper"},
		{"AO02", "Broadcast"},
		{"AO03", "Online-only"},
		{"AO04", "News agency"},
		{"AO05", "Freelance"},
		{"AO06", "Other"},
	}
	// The UK instance lists freelancers before news agencies.
	mediaTypeUK = []Code{
		{"AO01", "Newspaper"},
		{"AO02", "Broadcast"},
		{"AO03", "Online-only"},
		{"AO04", "Freelance"},
		{"AO05", "News agency"},
		{"AO06", "Other"},
	}

	mediaRole = []Code{
		{"AO01", "Reporter"},
		{"AO02", "Editor"},
		{"AO03", "Investigative journalist"},
		{"AO04", "Other"},
	}
)

func mediaQuestions() []Question {
	questions := []Question{
		{Family: "mediatype", Title: "Type of media outlet", Kind: KindCategorical, Answers: mediaType, Overrides: countryOverride(model.CountryUK, mediaTypeUK)},
		{Family: "role", Title: "Your role", Kind: KindCategorical, Answers: mediaRole},
	}
	questions = append(questions, sharedQuestions()...)
	questions = append(questions,
		Question{Family: "foi4", Title: "How helpful was the response to your request?", Kind: KindCategorical, Answers: mediaFOI4},
		multiSelect("foi5", "Why did you not file requests?", foi5Options),
		likertMatrix("protectops1", "How often do you use the following protective measures?", []Option{
			{"SQ01", "sectraining", "Digital security training"},
			{"SQ02", "encryption", "Encrypted communication"},
			{"SQ03", "deviceseparation", "Separate devices for sensitive work"},
			{"SQ04", "legaladvice", "Legal advice"},
			{"SQ05", "sourceprotection", "Source protection protocols"},
		}, frequency),
		Question{Family: "protectops2", Title: "Have you changed your practices because of surveillance concerns?", Kind: KindCategorical, Answers: yesNo},
		multiSelect("protectops3", "Which tools do you use?", protectops3Options),
		Question{Family: "constraintinter1", Raw: "contstraintinter1", Title: "Have you experienced interference by intelligence agencies?", Kind: KindCategorical, Answers: yesNo},
		Question{Family: "constraintinter2", Raw: "contstraintinter2", Title: "How often does interference occur?", Kind: KindCategorical, Answers: frequency},
		Question{Family: "constraintcen1", Title: "Have you held back a story because of surveillance concerns?", Kind: KindCategorical, Answers: yesNo},
		Question{Family: "constraintcen2", Title: "How often did sources refuse to talk because of surveillance?", Kind: KindCategorical, Answers: frequency},
		Question{Family: "constraintcen3", Title: "How many times did this happen in the last 12 months?", Kind: KindNumeric},
		Question{Family: "soc1", Title: "Stories on surveillance in the last 12 months", Kind: KindNumeric},
		Question{Family: "soc2", Title: "Follow-up stories in the last 12 months", Kind: KindNumeric},
		Question{Family: "soc3", Title: "Surveillance is a priority topic for my newsroom", Kind: KindCategorical, Answers: agreement},
		Question{Family: "soc4", Title: "Do you cooperate with civil-society organisations on surveillance?", Kind: KindCategorical, Answers: yesNo},
		multiSelect("soc6", "Which formats do you use to cover surveillance?", []Option{
			{"SQ01", "news", "News reports"},
			{"SQ02", "investigative", "Investigative pieces"},
			{"SQ03", "opinion", "Opinion pieces"},
			{"SQ04", "explainer", "Explainers"},
			{"SQ05", "none", "None of these"},
		}),
		likertMatrix("attitude1", "To what extent do you agree with the following statements?", attitude1Options, agreement),
		Question{Family: "attitude2", Title: "How would you rate the oversight of intelligence agencies in your country?", Kind: KindCategorical, Answers: oversightRating},
		multiSelect("attitude3", "Which reforms should be prioritised?", attitude3Options),
		multiSelect("impact1", "How has surveillance affected your work?", impact1Options),
		multiSelect("impact2", "How has surveillance affected your sources and colleagues?", impact2Options),
		Question{Family: "rankinst", Title: "Rank the following oversight actors by importance", Kind: KindRank, Positions: 6},
		Question{Family: "comments", Title: "Comments", Kind: KindFreeText},
	)
	return questions
}
