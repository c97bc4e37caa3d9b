package fragment

// DefaultManifest returns the club home page's containers and the fragment
// each one receives.
func DefaultManifest() []Request {
	return []Request{
		{ContainerID: "header-container", SourcePath: "components/header.html"},
		{ContainerID: "hero-container", SourcePath: "components/hero.html"},
		{ContainerID: "rsvp-container", SourcePath: "components/rsvp.html"},
		{ContainerID: "game-setup-container", SourcePath: "components/game-setup.html"},
		{ContainerID: "rules-container", SourcePath: "components/rules.html"},
		{ContainerID: "field-layout-container", SourcePath: "components/field-layout.html"},
		{ContainerID: "location-container", SourcePath: "components/location.html"},
		{ContainerID: "footer-container", SourcePath: "components/footer.html"},
	}
}
