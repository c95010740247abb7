package domain

// DefaultCards returns the cards seeded into an empty collection, ordered 1..6.
func DefaultCards() []Card {
	return []Card{
		{
			Title:    "VK SEVA NIDHI",
			Subtitle: "Empowering rural communities through micro-finance and savings.",
			Icon:     "Shield",
			Gradient: "from-teal-500 to-emerald-500",
			Link:     "#",
			Active:   true,
			Order:    1,
			Badges:   []string{"SAVINGS - 8% Annually", "MICRO LOANS - Easy EMI", "RURAL GROWTH - Community Led", "TRANSPARENT - Tech Driven"},
		},
		{
			Title:    "VK EDUCATION",
			Subtitle: "Digital literacy and quality education for every child.",
			Icon:     "Briefcase",
			Gradient: "from-blue-500 to-cyan-500",
			Link:     "#",
			Active:   true,
			Order:    2,
			Badges:   []string{"DIGITAL LABS - 50+ Schools", "SCHOLARSHIPS - 1000+ Kids", "SKILL DEV - Youth Focused", "FREE RESOURCES - Open Access"},
		},
		{
			Title:    "VK HEALTHCARE",
			Subtitle: "Bringing medical facilities to the doorstep of remote villages.",
			Icon:     "Shield",
			Gradient: "from-violet-500 to-purple-500",
			Link:     "#",
			Active:   true,
			Order:    3,
			Badges:   []string{"MOBILE CLINICS - 24/7", "FREE CHECKUPS - Weekly", "MEDICINE BANK - Subsidized", "HEALTH CAMPS - Monthly"},
		},
		{
			Title:    "VK AGRO TECH",
			Subtitle: "Sustainable farming practices and market access for farmers.",
			Icon:     "Shield",
			Gradient: "from-orange-400 to-red-500",
			Link:     "#",
			Active:   true,
			Order:    4,
			Badges:   []string{"ORGANIC FARMING - Training", "MARKET LINK - Direct Sale", "SOIL TESTING - Free Labs", "SEED BANK - Native Crops"},
		},
		{
			Title:    "VK WOMEN EMPOWER",
			Subtitle: "Self-help groups and vocational training for rural women.",
			Icon:     "Shield",
			Gradient: "from-pink-500 to-rose-500",
			Link:     "#",
			Active:   true,
			Order:    5,
			Badges:   []string{"SHG GROUPS - 500+", "SKILL TRAINING - Tailoring", "FINANCIAL INDEPENDENCE", "LEADERSHIP PROGRAMS"},
		},
		{
			Title:    "VK CLEAN WATER",
			Subtitle: "Providing safe drinking water and sanitation facilities.",
			Icon:     "Shield",
			Gradient: "from-cyan-400 to-blue-600",
			Link:     "#",
			Active:   true,
			Order:    6,
			Badges:   []string{"RO PLANTS - 20+ Villages", "SANITATION - 1000+ Toilets", "WATER TESTING - Regular", "HYGIENE AWARENESS"},
		},
	}
}

func DefaultHero() HeroSettings {
	return HeroSettings{
		Badge:         "Empowering Communities with Purpose & Technology",
		Title:         "Transforming Lives",
		TitleGradient: "Through Innovation",
		Description:   "VK Sewa Foundation is a non-profit organization dedicated to bridging the gap between resources and rural needs through transparent, technology-driven social impact initiatives.",
		PrimaryBtn:    "EXPLORE OUR MISSION",
		SecondaryBtn:  "VIEW IMPACT REPORT",
		Announcement:  "Our core initiative to showcase and highlight important announcements",
	}
}

func DefaultMission() MissionSettings {
	return MissionSettings{
		Title:         "Why We Do",
		TitleGradient: "What We Do",
		Paragraphs: []string{
			"At VK Sewa Foundation, we believe that every individual deserves access to basic necessities and opportunities for growth. Our journey started with a simple observation: the vast disparity in resources between urban and rural India.",
			"We leverage modern technology to ensure that every rupee donated reaches its intended destination. Our transparent tracking systems and community-led approach make us a trusted partner for social change.",
			"From micro-finance to digital literacy, our programs are designed to be sustainable and scalable. We don't just provide aid; we build ecosystems that empower people to help themselves.",
		},
		Image:           "https://images.unsplash.com/photo-1488521787991-ed7bbaae773c?q=80&w=2070&auto=format&fit=crop",
		ExperienceYears: "10+",
		Items: []MissionItem{
			{Title: "Transparency", Description: "Real-time tracking of every project and donation."},
			{Title: "Sustainability", Description: "Long-term solutions that create lasting impact."},
		},
	}
}

func DefaultStats() StatsSettings {
	return StatsSettings{
		Items: []StatItem{
			{Label: "Lives Impacted", Value: "50,000+", Color: "text-teal-400"},
			{Label: "Villages Reached", Value: "200+", Color: "text-emerald-400"},
			{Label: "Volunteers", Value: "1,500+", Color: "text-cyan-400"},
			{Label: "Projects", Value: "12+", Color: "text-blue-400"},
		},
	}
}

func DefaultCTA() CTASettings {
	return CTASettings{
		Title:         "Be the Change",
		TitleGradient: "You Wish to See",
		Description:   "Your contribution, no matter how small, can spark a revolution in someone's life. Join us in our mission to create a more equitable world.",
		PrimaryBtn:    "DONATE NOW",
		SecondaryBtn:  "BECOME A VOLUNTEER",
	}
}

func DefaultAbout() AboutContent {
	return AboutContent{
		Hero: AboutHero{
			Badge:         "Our Story & Purpose",
			Title:         "Driven by",
			TitleGradient: "Compassion",
			Description:   "VK Sewa Foundation is more than just a non-profit; it's a movement dedicated to redefining social impact through the lens of technology and radical transparency.",
		},
		Story: AboutStory{
			Title:         "The Journey of",
			TitleGradient: "VK Sewa",
			Paragraphs: []string{
				"Founded in 2014, VK Sewa Foundation emerged from a collective desire to address the systemic challenges faced by rural communities in India. What started as a small group of volunteers providing weekend literacy classes has grown into a multi-faceted organization impacting thousands of lives.",
				"We realized early on that traditional charity models often lacked accountability and long-term sustainability. This led us to integrate technology into our core operations, ensuring that every initiative is data-driven and every donation is traceable.",
				"Today, we operate across five states, focusing on education, healthcare, micro-finance, and sustainable agriculture. Our team consists of passionate professionals, tech experts, and dedicated field workers who share a common goal: to build a future where opportunity is not a privilege of the few.",
			},
			Image:           "https://images.unsplash.com/photo-1509099836639-18ba1795216d?q=80&w=1931&auto=format&fit=crop",
			FoundationYear:  "2014",
			FoundationLabel: "Founded",
		},
		MV: AboutMissionVision{
			MissionTitle: "Our Mission",
			MissionDesc:  "To empower underprivileged communities by providing access to quality education, healthcare, and sustainable livelihood opportunities. We believe in creating a world where every individual has the chance to thrive through self-reliance and dignity.",
			VisionTitle:  "Our Vision",
			VisionDesc:   "A future where technology and compassion work hand-in-hand to eliminate poverty and inequality. We envision a society built on transparency, empathy, and collective action, where every child can dream without boundaries.",
		},
		Values: []ValueItem{
			{Title: "Transparency", Icon: "Shield", Desc: "We maintain radical honesty in our operations. Every rupee donated is tracked, and every project's progress is shared in real-time with our stakeholders."},
			{Title: "Innovation", Icon: "Zap", Desc: "We don't just follow best practices; we create them. By leveraging AI, blockchain, and mobile tech, we solve complex social problems more efficiently."},
			{Title: "Empathy", Icon: "Heart", Desc: "We listen before we act. Our programs are co-created with the communities we serve, ensuring that our solutions are culturally relevant and truly needed."},
		},
		Team: []TeamMember{
			{Name: "Team Member 1", Role: "Role Title"},
			{Name: "Team Member 2", Role: "Role Title"},
			{Name: "Team Member 3", Role: "Role Title"},
			{Name: "Team Member 4", Role: "Role Title"},
		},
	}
}

func DefaultContact() ContactContent {
	return ContactContent{
		Hero: ContactHero{
			Badge:       "Get in Touch",
			Title:       "Let's Connect",
			Description: "Questions or collaboration? We're here to help.",
		},
		Info: []ContactInfoItem{
			{Label: "Email", Value: "contact@vkseva.org", Href: "mailto:contact@vkseva.org", Icon: "Mail", Color: "bg-teal-500/10 text-teal-500"},
			{Label: "Office", Value: "Kankarbagh, Bihar, 800020", Href: "#", Icon: "MapPin", Color: "bg-emerald-500/10 text-emerald-500"},
			{Label: "Phone", Value: "+91 98765 43210", Href: "tel:+919876543210", Icon: "Phone", Color: "bg-cyan-500/10 text-cyan-500"},
		},
		Support: ContactSupport{
			Title:       "Support Our Cause",
			Description: "Your contribution helps us bridge the gap for rural communities.",
			BtnText:     "DONATE NOW",
		},
	}
}
