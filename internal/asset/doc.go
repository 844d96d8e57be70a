// Package asset models one staged package entry: the GUID-named directory
// holding an asset payload, its metadata sidecar, and the pathname file that
// declares where the asset lives in the reconstructed project tree.
package asset
