// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

/*
Package label provides the hierarchical name of a build target.

The full form is `//path/to/folder/file.ext:target`. Every part may be
omitted:

	//path/to/folder      implicit file and target: //path/to/folder/<build file>:folder
	:target               same workspace:           //<this workspace>/<build file>:target
	(empty)               the workspace's own target

MakeAbsolute fills the missing parts from the position of a workspace below
the root directory.
*/
package label
