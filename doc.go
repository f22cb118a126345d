// Package nicevibrations documents the layout of a haptic clip playback
// engine: loading versioned clip files, rendering emphasis and
// interpolation passes over their envelopes, exporting platform
// patterns, and scheduling playback against a host's haptic hardware.
//
// # Packages
//
//   - datamodel: the clip file format, versioned loading and upgrade,
//     and seek truncation.
//   - transform: emphasis rendering, interpolation/quantization, and
//     waveform construction over a clip's envelopes.
//   - pattern: export to a platform (AHAP-style) pattern format.
//   - player: the event provider, streaming and waveform schedulers, and
//     the controller facade a host embeds.
//   - cadapter: the thin boundary a foreign-function binding builds on.
//
// There is no code at the module root; it exists as an index into the
// packages above. See cmd/hapticd for an HTTP preview server and
// cmd/haptic2ahap for a one-shot file converter.
package nicevibrations
