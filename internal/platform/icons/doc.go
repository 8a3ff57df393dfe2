// Package icons maps editor icon names onto the site's inline Lucide sprite.
//
// Editors type icon names the way Lucide documents them ("MapPin",
// "map-pin"). Names are normalized to kebab-case and resolved against the
// symbols bundled in the sprite; unknown names fall back to a generic icon.
package icons
