package fileutil

import "os"

// OwnerReadWrite is the file permission mode for vendor profiles and
// configuration written by the CLI.
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated source code
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DirReadableByAll is the permission mode for generated package directories.
const DirReadableByAll os.FileMode = 0o755
