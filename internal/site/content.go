package site

// NavLink is an in-page anchor in the header or footer.
type NavLink struct {
	Label    string
	Fragment string
}

// Benefit is a stat card in the benefits grid.
type Benefit struct {
	Stat  string
	Label string
}

// Segment describes one audience in "Who we serve".
type Segment struct {
	Icon  string
	Title string
	Body  string
}

// FAQ is a question/answer card.
type FAQ struct {
	Question string
	Answer   string
}

// Option is a select option; an empty Value submits the label.
type Option struct {
	Value string
	Label string
}

// Content is the static copy of the landing page.
type Content struct {
	HeaderNav  []NavLink
	FooterNav  []NavLink
	HeroTitle  string
	HeroAccent string
	HeroLead   string
	HeroPoints []string
	HeroImage  string
	HeroAlt    string

	BenefitsTitle string
	BenefitsLead  string
	Benefits      []Benefit

	Segments []Segment

	AboutBody string

	FAQs []FAQ

	CTATitle string
	CTABody  string

	OrderLead    string
	Vegetables   []string
	Deliveries   []Option
	Days         []Option
	OrderNotes   string
	ContactLead  string
	ContactNotes string

	DisabledNotice string
}

// DefaultContent returns the production copy.
func DefaultContent() Content {
	return Content{
		HeaderNav: []NavLink{
			{"About", "about"},
			{"Benefits", "benefits"},
			{"Who we serve", "for"},
			{"FAQ", "faq"},
			{"Order", "order"},
			{"Contact", "contact"},
		},
		FooterNav: []NavLink{
			{"About", "about"},
			{"Benefits", "benefits"},
			{"Who we serve", "for"},
			{"FAQ", "faq"},
			{"Contact", "contact"},
		},
		HeroTitle:  "Fresh picked. Pure flavor.",
		HeroAccent: "Organic vegetables, grown locally",
		HeroLead:   "Terraponic growing lets us harvest at peak flavor — no pesticides, no long-haul trucking, just clean, nutrient-dense produce.",
		HeroPoints: []string{
			"Zero pesticides or chemical residues",
			"Harvested same-day for maximum freshness",
			"Packed with crisp texture and vibrant flavor",
		},
		HeroImage: "https://images.unsplash.com/photo-1461354464878-ad92f492a5a0?q=80&w=1600&auto=format&fit=crop",
		HeroAlt:   "Farmers market display of fresh organic vegetables",

		BenefitsTitle: "Why our vegetables taste better",
		BenefitsLead:  "Terraponic systems nurture living biology — delivering clean, nutrient‑dense produce without pesticides.",
		Benefits: []Benefit{
			{"Ultra‑fresh", "Harvested at peak flavor"},
			{"Pesticide‑free", "No chemical residues"},
			{"Nutrient‑dense", "Grown in living media"},
			{"Local & sustainable", "Short supply chain"},
		},

		Segments: []Segment{
			{
				Icon:  "home",
				Title: "Households",
				Body:  "Weekly shares of vegetables and herbs — picked fresh and delivered locally. Cleaner, crisper produce for your family.",
			},
			{
				Icon:  "utensils",
				Title: "Restaurants",
				Body:  "Consistent, high‑quality vegetables with bright flavor and excellent plate life. Direct relationships, reliable schedules, local delivery.",
			},
		},

		AboutBody: "We grow food the way nature intended — clean, organic, and bursting with flavor. Using terraponic growing systems, we harvest locally so you get produce at its peak.",

		FAQs: []FAQ{
			{"What is terraponics?", "A growing method using a soil‑like medium and gentle irrigation. It supports vibrant plant health, great flavor, and clean, pesticide‑free production."},
			{"Is everything organic?", "Yes — we follow organic practices and do not use pesticides or chemical sprays."},
			{"Do you deliver locally?", "Yes — we focus on nearby homes and restaurants to keep everything ultra‑fresh."},
		},

		CTATitle: "Ready for ultra‑fresh vegetables?",
		CTABody:  "Tell us if you’re a household or a restaurant and we’ll follow up with details.",

		OrderLead:  "Tell us what vegetables you’re interested in. We’ll reply with availability and timing.",
		Vegetables: []string{"Salad mix", "Tomatoes", "Cucumbers", "Peppers", "Herbs", "Root vegetables"},
		Deliveries: []Option{
			{"Local delivery", "Local delivery"},
			{"Pickup", "Pickup"},
			{"Either", "Either"},
		},
		Days: []Option{
			{Label: "Any"}, {Label: "Mon"}, {Label: "Tue"}, {Label: "Wed"},
			{Label: "Thu"}, {Label: "Fri"}, {Label: "Sat"}, {Label: "Sun"},
		},
		OrderNotes:   "Quantities, special requests, restaurant specs, or delivery address",
		ContactLead:  "Share your needs (household shares or restaurant supply), and where you’re located.",
		ContactNotes: "Tell us if you're a household or restaurant, and what you need",

		DisabledNotice: "Add a Formspree ID in CONFIG.contact to enable the form.",
	}
}
