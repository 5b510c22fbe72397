// Package launch prepares the host application's process: environment
// injection, last-workfile arguments and discovery of the bundled Python
// used to install the Qt binding.
package launch
