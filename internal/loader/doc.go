// Package loader builds the workspace tree from descriptor files.
//
// The root file is loaded in-process. Every component a workspace names is
// loaded as an isolated task on a worker.Runtime: the task receives an
// encoded Input, loads the component and, recursively, its own components,
// and answers with an encoded Output carrying the subtree and the files it
// parsed. The parent merges those files into the shared cache
// (first writer wins), splices the subtree in and sets its parent link.
package loader
