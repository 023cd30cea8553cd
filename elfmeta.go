// Package elfmeta decodes the metadata of ELF object files: the file header,
// the program header table and the section header table with resolved
// section names.
//
// Every decoder is parameterized by the word width and the byte order found
// in the identification bytes of the header. Contents of segments and
// sections are never read.
package elfmeta

// Version of the module, reported by the command line tool.
const Version = "0.1.0"
