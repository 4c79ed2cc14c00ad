// Package registry provides the central "glue" between extension
// declarations and the compiled-in package managers.
//
// Descriptors name a package manager by its handler string (an `extension`
// record with `handler = "prefix"`). The Registry maps those handler names to
// factories that build a model.PackageManager from the extension's config.
// Modules under modules/ register their handlers at startup, and the loader
// binds every declared extension before external resolution runs.
package registry
