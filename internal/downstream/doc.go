// Package downstream triggers regeneration of derived artifacts after
// a cleanup mutates archive files. Refresh failures are logged and
// reported on their own channel; they never affect the outcome of the
// run that triggered them.
package downstream
