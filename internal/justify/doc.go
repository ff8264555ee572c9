// Package justify re-spaces justified text one page at a time.
//
// Justified lines stretch their inter-word gaps. The engine wraps every text
// node of a page into word and space units, measures each space with and
// without justification, and searches a small grid of letter-spacing values
// for the one that brings the stretched gap back to its natural width.
//
// The engine never measures anything itself. All geometry comes from a
// Layout, the rendering engine collaborator: a headless browser in
// production, a deterministic model in tests.
//
// Components, leaf first:
//
//	Annotate  - rewrites text nodes into <a-word>/<a-space> units
//	Sampler   - measures spaces and groups them per visual line
//	Search    - fits the letter-spacing of one group
//	Walker    - visits pages 1..N in order and drives the three above
package justify
