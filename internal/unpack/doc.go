// Package unpack holds the pieces shared by every stage of package
// extraction: the closed error taxonomy and the archive expansion that
// turns a .unitypackage stream into a staging directory of GUID entries.
package unpack
