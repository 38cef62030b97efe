package skills

// CanonicalSkill pairs a canonical skill identifier with the textual
// variations that all resolve to it.
type CanonicalSkill struct {
	Name       string
	Variations []string
}

// DefaultSkills is the communications skill table. Declaration order matters:
// when two skills claim the same variation phrase, the earlier declaration
// wins. A canonical name always resolves to itself, even when a later (or
// earlier) skill lists it as a variation.
func DefaultSkills() []CanonicalSkill {
	return []CanonicalSkill{
		{
			Name: "strategic planning",
			Variations: []string{
				"strategic development", "strategy development",
				"strategic direction", "strategic initiatives",
				"strategic leadership", "strategic management",
				"strategic foresight", "strategic vision",
			},
		},
		{
			Name: "stakeholder management",
			Variations: []string{
				"stakeholder engagement", "stakeholder relations",
				"relationship management", "key stakeholders",
				"stakeholder communications", "executive relationships",
				"stakeholder collaboration", "stakeholder partnerships",
			},
		},
		{
			Name: "brand messaging",
			Variations: []string{
				"brand communications", "brand strategy",
				"brand voice", "brand management",
				"messaging strategy", "corporate messaging",
				"brand positioning", "brand identity", "brand narrative",
			},
		},
		{
			Name: "communications strategy",
			Variations: []string{
				"communication strategies", "strategic communications",
				"communications planning", "integrated communications",
				"integrated strategy", "communications roadmap",
				"communications program", "communication framework",
				"communication blueprint",
			},
		},
		{
			Name: "public relations",
			Variations: []string{
				"pr", "media relations", "press relations",
				"media outreach", "press outreach", "media strategy",
				"publicity", "public affairs", "public engagement",
			},
		},
		{
			Name: "external communications",
			Variations: []string{
				"public communications", "external comms",
			},
		},
		{
			Name: "executive communications",
			Variations: []string{
				"executive thought leadership", "leadership communications",
				"executive messaging", "leadership messaging",
				"executive positioning", "c-suite communications",
				"leadership content", "executive content",
			},
		},
		{
			Name: "content strategy",
			Variations: []string{
				"content planning", "content development",
				"copywriting", "content management",
				"editorial strategy", "content operations",
				"customer storytelling", "data-driven storytelling",
			},
		},
		{
			Name: "storytelling",
			Variations: []string{
				"narrative development", "brand storytelling",
				"content creation", "story development",
				"messaging", "narrative",
			},
		},
		{
			Name: "project management",
			Variations: []string{
				"program management", "campaign management",
				"event management", "event & speaker program management",
				"initiative management", "project leadership",
			},
		},
		{
			Name: "team leadership",
			Variations: []string{
				"cross-functional collaboration", "agency management",
				"team management", "people leadership",
				"organizational leadership",
			},
		},
		{
			Name: "employee engagement",
			Variations: []string{
				"employee communications", "workforce communications",
				"staff engagement", "employee experience",
				"internal engagement",
			},
		},
		{
			Name: "internal communications",
			Variations: []string{
				"internal comms", "change communications",
			},
		},
		{
			Name: "change management",
			Variations: []string{
				"organizational change", "transformation communications",
				"organizational transformation",
			},
		},
		{
			Name: "dei communication",
			Variations: []string{
				"diversity communications", "inclusion communications",
				"equity communications", "dei initiatives",
				"diversity and inclusion",
			},
		},
		{
			Name: "policy communication",
			Variations: []string{
				"policy messaging", "compliance communications",
				"regulatory communications", "policy initiatives",
			},
		},
		{
			Name: "social media",
			Variations: []string{
				"digital communications", "digital channels",
				"social platforms", "digital strategy",
				"social strategy", "online presence",
			},
		},
		{
			Name: "crm",
			Variations: []string{
				"customer relationship management", "stakeholder database",
				"contact management", "relationship tracking",
			},
		},
		{
			Name: "crisis management",
			Variations: []string{
				"issues management", "reputation management",
				"crisis communications", "risk management",
				"emergency communications",
			},
		},
		{
			Name: "brand alignment",
		},
	}
}
