/*
Package config loads runtime configuration for page processes.

Configuration comes from a YAML file (baekilha.yaml by default) overlaid on
built-in defaults; command flags may further override individual fields at the
cmd layer. A missing config file is not an error — every field has a usable
default so `baekilha rank members` works out of the box.

The one field worth calling out is Channel.MulticastGroup: setting it empty
disables the ephemeral transport entirely, which is also the automatic
fallback when joining the group fails at startup.
*/
package config
