// Package pathutil validates user-supplied output paths before restgen
// writes generated packages or vendor profiles to them.
//
// [SanitizeOutputDir] is used for generated package directories and
// [SanitizeOutputPath] for single files. Both clean the path, make it
// absolute and reject symlinks:
//
//	dir, err := pathutil.SanitizeOutputDir(userProvidedDir)
//	if err != nil {
//	    return err
//	}
package pathutil
