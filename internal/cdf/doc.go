// Package cdf encodes the NetCDF classic file format (CDF-2, the 64-bit
// offset variant), which is the physical container for Exodus II files.
//
// A classic file is a single header followed by one contiguous data section
// per variable:
//
//	magic ('C' 'D' 'F' '\x02')
//	numrecs
//	dimension list  (name, size)
//	global attribute list
//	variable list   (name, dimension ids, attributes, type, size, begin)
//	data            (per-variable sections, 4-byte aligned)
//
// All integers are big-endian. Names and attribute values are padded to
// 4-byte boundaries with zeros.
//
// The encoder works in two passes: first the header size is computed so that
// each variable's begin offset is known, then header and data are written
// sequentially. Because the Exodus schema fixes the time dimension at one
// step, no record (unlimited) variables exist and numrecs is always zero.
//
// [Decode] reads the subset of the format produced by [Encode]; it exists so
// tests can verify serialized files without an external NetCDF reader.
package cdf
