package domain

// SectionKey names one singleton settings document.
type SectionKey string

const (
	SectionHero    SectionKey = "hero"
	SectionMission SectionKey = "mission"
	SectionStats   SectionKey = "stats"
	SectionCTA     SectionKey = "cta"
	SectionAbout   SectionKey = "about"
	SectionContact SectionKey = "contact"
)

// SectionSpec describes how a persisted section is merged over its compiled
// defaults. Keys listed in DeepMerge merge nested objects field by field;
// every other key, and every array, replaces the default wholesale.
type SectionSpec struct {
	Key       SectionKey
	Version   int
	DeepMerge []string
	Default   func() any
}

// Sections lists the six settings sections in seeding order. Hero comes first
// because its presence marks the namespace as initialized.
var Sections = []SectionSpec{
	{Key: SectionHero, Version: 2, Default: func() any { return DefaultHero() }},
	{Key: SectionMission, Version: 1, Default: func() any { return DefaultMission() }},
	{Key: SectionStats, Version: 1, Default: func() any { return DefaultStats() }},
	{Key: SectionCTA, Version: 1, Default: func() any { return DefaultCTA() }},
	{Key: SectionAbout, Version: 1, DeepMerge: []string{"hero", "story", "mv"}, Default: func() any { return DefaultAbout() }},
	{Key: SectionContact, Version: 1, DeepMerge: []string{"hero", "support"}, Default: func() any { return DefaultContact() }},
}

// LookupSection returns the section definition for key.
func LookupSection(key SectionKey) (SectionSpec, bool) {
	for _, s := range Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionSpec{}, false
}

type HeroSettings struct {
	Badge         string `json:"badge"`
	Title         string `json:"title"`
	TitleGradient string `json:"titleGradient"`
	Description   string `json:"description"`
	PrimaryBtn    string `json:"primaryBtn"`
	SecondaryBtn  string `json:"secondaryBtn"`
	Announcement  string `json:"announcement,omitempty"`
}

type MissionItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type MissionSettings struct {
	Title           string        `json:"title"`
	TitleGradient   string        `json:"titleGradient"`
	Paragraphs      []string      `json:"paragraphs"`
	Image           string        `json:"image"`
	ExperienceYears string        `json:"experienceYears"`
	Items           []MissionItem `json:"items"`
}

type StatItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

type StatsSettings struct {
	Items []StatItem `json:"items"`
}

type CTASettings struct {
	Title         string `json:"title"`
	TitleGradient string `json:"titleGradient"`
	Description   string `json:"description"`
	PrimaryBtn    string `json:"primaryBtn"`
	SecondaryBtn  string `json:"secondaryBtn"`
}

type AboutHero struct {
	Badge         string `json:"badge"`
	Title         string `json:"title"`
	TitleGradient string `json:"titleGradient"`
	Description   string `json:"description"`
}

type AboutStory struct {
	Title           string   `json:"title"`
	TitleGradient   string   `json:"titleGradient"`
	Paragraphs      []string `json:"paragraphs"`
	Image           string   `json:"image"`
	FoundationYear  string   `json:"foundationYear"`
	FoundationLabel string   `json:"foundationLabel"`
}

type AboutMissionVision struct {
	MissionTitle string `json:"missionTitle"`
	MissionDesc  string `json:"missionDesc"`
	VisionTitle  string `json:"visionTitle"`
	VisionDesc   string `json:"visionDesc"`
}

type ValueItem struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Icon  string `json:"icon"`
}

type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Image string `json:"image"`
}

type AboutContent struct {
	Hero   AboutHero          `json:"hero"`
	Story  AboutStory         `json:"story"`
	MV     AboutMissionVision `json:"mv"`
	Values []ValueItem        `json:"values"`
	Team   []TeamMember       `json:"team"`
}

type ContactInfoItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Href  string `json:"href"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type ContactHero struct {
	Badge       string `json:"badge"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ContactSupport struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BtnText     string `json:"btnText"`
}

type ContactContent struct {
	Hero    ContactHero       `json:"hero"`
	Info    []ContactInfoItem `json:"info"`
	Support ContactSupport    `json:"support"`
}

// Settings groups all six sections, keyed by their JSON document names.
type Settings struct {
	Hero    HeroSettings    `json:"hero"`
	Mission MissionSettings `json:"mission"`
	Stats   StatsSettings   `json:"stats"`
	CTA     CTASettings     `json:"cta"`
	About   AboutContent    `json:"about"`
	Contact ContactContent  `json:"contact"`
}
