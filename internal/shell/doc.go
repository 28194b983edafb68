// Package shell is a line-oriented request front end for a store.
//
// # Requests
//
// One request per line; the first word is the verb:
//
//	read PATH                 value at PATH
//	write PATH [VALUE...]     store the rest of the line at PATH
//	mkdir PATH                create PATH and missing parents
//	rm PATH                   remove PATH and its subtree
//	directory PATH | ls PATH  child names, one per line
//	generation PATH           child-set generation of PATH
//	tree PATH                 every node below PATH with its value
//	digest PATH               BLAKE3 subtree digest
//	stat                      node count, root generation, open snapshots
//	stats                     per-operation counters
//	domain ID                 act as domain ID from now on
//	export FILE [COMP [PATH]] dump the tree, or the subtree at PATH
//	import FILE               replace the tree with a whole-tree dump
//
// Transaction, watch and permission requests are accepted and fail with
// ENOSYS.
//
// # Replies
//
// A successful request with no output replies "OK". Failures reply
// "ERR <ERRNO>", using the errno a xenstore client would see.
package shell
