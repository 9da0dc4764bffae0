// Package gen defines the generator plugin contract and the isolation
// wrapper the driver uses to call into plugin code.
//
// A generator is any type implementing Generator: Init is called at most
// once per registered handle, Execute once per full-generation run. During
// Init a generator may register edit callbacks that the driver consults when
// it tries to satisfy incremental edits without a full rerun.
//
// Plugin failures never cross the package boundary as panics: SafeInit and
// SafeExecute convert both panics and returned errors into ordinary errors
// that the driver downgrades to warning diagnostics naming the generator.
// The only exception is a hint-name collision, which is a configuration
// error and stays fatal.
package gen
