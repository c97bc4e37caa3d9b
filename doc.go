// Package clubsite assembles the Wizards Wiffle Ball Club site from HTML
// fragments and JSON data.
//
// # Quick Start
//
// Create a site, assemble the home page, write the result:
//
//	site, err := clubsite.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := site.Assemble(ctx, clubsite.Input{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", result.HTML, 0644)
//
// With no options the embedded default site is used: its index.html is the
// host page and DefaultManifest names the fragments.
//
// # Assembly
//
// Assemble runs the page initializer a browser would run:
//
//  1. Parse the host page
//  2. Load every fragment into its container (concurrently by default)
//  3. Bind next-game data from data/events.json into .event-* elements
//  4. Load the remaining data files, checking they are valid JSON
//  5. Render the document
//
// A fragment that cannot be retrieved, or whose container is missing,
// leaves its container untouched. It is logged and reported in
// Result.Outcomes; assembly carries on.
//
// # Sources
//
// Fragments are read through a Fetcher. WithAssetPath reads from a
// directory and falls back to the embedded site for files it lacks.
// WithBaseURL reads from a running server. WithFetcher takes any
// implementation.
//
// # Templates
//
// Placeholder substitution ({{KEY}}) is independent of fragment loading.
// Use ProcessTemplate or LoadAndProcessTemplate directly, or attach values
// to containers with WithValues so their fragments are substituted on
// load.
//
// # Logging
//
// Diagnostics go to the *slog.Logger carried on the context (see
// WithLogger). Without one they are discarded.
package clubsite
