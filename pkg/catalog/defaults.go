package catalog

import "github.com/aretw0/upskill/pkg/domain"

// Question ids of the default catalog.
const (
	QuestionAudience   = 1
	QuestionExperience = 2
	QuestionTools      = 3
	QuestionGoals      = 4
	QuestionStack      = 5
	QuestionData       = 6
	QuestionDelivery   = 7
	QuestionTimeline   = 8
	QuestionContact    = 9
)

var (
	beginner = domain.AffinityFor(domain.TrackBeginner)
	engineer = domain.AffinityFor(domain.TrackEngineer)
	data     = domain.AffinityFor(domain.TrackData)
)

// Default returns the built-in AI training catalog.
func Default() *Catalog {
	return &Catalog{
		Currency:           "$",
		MinTeamSize:        domain.BaseTeamSize,
		MaxTeamSize:        DefaultMaxTeamSize,
		DeliveryQuestionID: QuestionDelivery,
		DefaultDelivery:    domain.DeliveryRemote,
		Questions:          defaultQuestions(),
		Tracks:             defaultTracks(),
	}
}

func defaultQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:     QuestionAudience,
			Prompt: "Who will attend the training?",
			Kind:   domain.KindSingleChoice,
			Options: []domain.Option{
				{ID: "business", Label: "Business and operations staff", Score: 3, Affinity: beginner},
				{ID: "developers", Label: "Software developers", Score: 3, Affinity: engineer},
				{ID: "analysts", Label: "Analysts and data teams", Score: 3, Affinity: data},
				{ID: "mixed", Label: "A mix of roles", Score: 1, Affinity: domain.AffinityAny},
			},
		},
		{
			ID:     QuestionExperience,
			Prompt: "How familiar is your team with AI tools today?",
			Kind:   domain.KindSingleChoice,
			Options: []domain.Option{
				{ID: "none", Label: "We have barely used them", Score: 2, Affinity: beginner},
				{ID: "some", Label: "Some people use them occasionally", Score: 1, Affinity: domain.AffinityAny},
				{ID: "advanced", Label: "AI is part of our daily work", Score: 2, Affinity: engineer},
			},
		},
		{
			ID:     QuestionTools,
			Prompt: "Which AI tools does your team already use?",
			Kind:   domain.KindMultiChoice,
			Options: []domain.Option{
				{ID: "chat", Label: "Chat assistants", Score: 1, Affinity: beginner},
				{ID: "copilot", Label: "Coding assistants", Score: 2, Affinity: engineer},
				{ID: "notebooks", Label: "Notebooks and BI copilots", Score: 2, Affinity: data},
				{ID: "apis", Label: "Model APIs in our own products", Score: 1, Affinity: engineer},
			},
			Visibility: &domain.Condition{DependsOn: QuestionExperience, MatchesAnyOf: []string{"some", "advanced"}},
		},
		{
			ID:     QuestionGoals,
			Prompt: "What should the training achieve?",
			Kind:   domain.KindMultiChoice,
			Options: []domain.Option{
				{ID: "productivity", Label: "Everyday productivity", Score: 2, Affinity: beginner},
				{ID: "build", Label: "Build AI features and agents", Score: 3, Affinity: engineer},
				{ID: "insights", Label: "Faster analysis and reporting", Score: 3, Affinity: data},
				{ID: "governance", Label: "Safe and compliant adoption", Score: 1, Affinity: domain.AffinityAny},
			},
		},
		{
			ID:     QuestionStack,
			Prompt: "What does your engineering stack look like?",
			Kind:   domain.KindSingleChoice,
			Options: []domain.Option{
				{ID: "python", Label: "Mostly Python", Score: 2, Affinity: data},
				{ID: "web", Label: "Web and mobile products", Score: 2, Affinity: engineer},
				{ID: "enterprise", Label: "Enterprise platforms (Java, .NET)", Score: 1, Affinity: engineer},
			},
			Visibility: &domain.Condition{DependsOn: QuestionAudience, MatchesAnyOf: []string{"developers", "mixed"}},
		},
		{
			ID:     QuestionData,
			Prompt: "Where does most of your data live?",
			Kind:   domain.KindSingleChoice,
			Options: []domain.Option{
				{ID: "spreadsheets", Label: "Spreadsheets", Score: 1, Affinity: beginner},
				{ID: "warehouse", Label: "A data warehouse", Score: 3, Affinity: data},
				{ID: "lake", Label: "A data lake or lakehouse", Score: 2, Affinity: data},
			},
			Visibility: &domain.Condition{DependsOn: QuestionAudience, MatchesAnyOf: []string{"analysts", "mixed"}},
		},
		{
			ID:     QuestionDelivery,
			Prompt: "How would you like the training delivered?",
			Kind:   domain.KindSingleChoice,
			Options: []domain.Option{
				{ID: string(domain.DeliveryRemote), Label: domain.DeliveryRemote.Label()},
				{ID: string(domain.DeliveryOurLocation), Label: domain.DeliveryOurLocation.Label()},
				{ID: string(domain.DeliveryTheirOffice), Label: domain.DeliveryTheirOffice.Label()},
				{ID: string(domain.DeliveryHybrid), Label: domain.DeliveryHybrid.Label()},
			},
		},
		{
			ID:     QuestionTimeline,
			Prompt: "When would you like to start?",
			Kind:   domain.KindSingleChoice,
			Options: []domain.Option{
				{ID: "asap", Label: "Within a month"},
				{ID: "quarter", Label: "This quarter"},
				{ID: "exploring", Label: "Just exploring"},
			},
		},
		{
			ID:     QuestionContact,
			Prompt: "Where should we send your proposal?",
			Kind:   domain.KindContactForm,
		},
	}
}

func defaultTracks() map[domain.Track]domain.TrackInfo {
	u := domain.Units
	return map[domain.Track]domain.TrackInfo{
		domain.TrackBeginner: {
			Track:       domain.TrackBeginner,
			Title:       "AI Foundations",
			Description: "Hands-on introduction to generative AI for non-technical teams: prompting, everyday automation and responsible use.",
			Workshops: []string{
				"Prompting for Everyday Work",
				"Responsible AI in Practice",
			},
			Pricing: domain.PricingTable{
				domain.DeliveryRemote:      {BasePriceFor8: u(18000), PerAdditionalHead: u(2000)},
				domain.DeliveryOurLocation: {BasePriceFor8: u(24000), PerAdditionalHead: u(2500)},
				domain.DeliveryTheirOffice: {BasePriceFor8: u(24000), PerAdditionalHead: u(2500), TravelSurcharge: u(6000)},
				domain.DeliveryHybrid:      {BasePriceFor8: u(21000), PerAdditionalHead: u(2250)},
			},
		},
		domain.TrackEngineer: {
			Track:       domain.TrackEngineer,
			Title:       "AI Engineering",
			Description: "Build production AI features: model APIs, retrieval, agents, evaluation and deployment.",
			Workshops: []string{
				"LLM APIs and Prompt Engineering",
				"Retrieval-Augmented Generation",
				"Building Agents with Tools",
				"Evaluating and Shipping AI Features",
			},
			Pricing: domain.PricingTable{
				domain.DeliveryRemote:      {BasePriceFor8: u(45000), PerAdditionalHead: u(5500)},
				domain.DeliveryOurLocation: {BasePriceFor8: u(60000), PerAdditionalHead: u(7500)},
				domain.DeliveryTheirOffice: {BasePriceFor8: u(60000), PerAdditionalHead: u(7500), TravelSurcharge: u(12000)},
				domain.DeliveryHybrid:      {BasePriceFor8: u(52000), PerAdditionalHead: u(6500)},
			},
		},
		domain.TrackData: {
			Track:       domain.TrackData,
			Title:       "AI for Data Teams",
			Description: "Use AI across the analytics workflow: SQL and notebook copilots, automated reporting and ML with LLMs.",
			Workshops: []string{
				"AI-Assisted Analysis",
				"Automated Reporting Pipelines",
				"Machine Learning with LLMs",
			},
			Pricing: domain.PricingTable{
				domain.DeliveryRemote:      {BasePriceFor8: u(30000), PerAdditionalHead: u(3500)},
				domain.DeliveryOurLocation: {BasePriceFor8: u(40000), PerAdditionalHead: u(4500)},
				domain.DeliveryTheirOffice: {BasePriceFor8: u(40000), PerAdditionalHead: u(4500), TravelSurcharge: u(9000)},
				domain.DeliveryHybrid:      {BasePriceFor8: u(35000), PerAdditionalHead: u(4000)},
			},
		},
	}
}
