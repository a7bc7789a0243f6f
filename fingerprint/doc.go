// Copyright (c) 2025 Livepoll Authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package fingerprint derives stable, non-reversible voter identifiers from a
connection's network origin.

	fp, err := fingerprint.Hash(origin, cfg.FingerprintSalt)

Hash is a pure function: the same origin and salt always produce the same
16-hex-char digest, and the origin cannot be recovered from it.

Voters behind the same origin (shared NAT, corporate proxy) collapse to one
fingerprint and therefore one vote. That is the intended dedup semantic -
one vote per observed origin, not per human - and is a documented
limitation, not a bug.
*/
package fingerprint
