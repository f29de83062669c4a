// Package workspace manages the deploy mirror: a persistent directory next
// to the site root (`<parent>/.<basename>`) holding a git checkout of the
// published branch.
//
// Each deploy clears the mirror except for its `.git` directory and copies
// the generated site into it, so the branch history keeps only published
// output.
package workspace
