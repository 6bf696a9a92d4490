package common

// LqdVersion is the current compiler version as a semantic version string.
const LqdVersion string = "v0.1.0"

// LqdProjectFileName is the name for lqd project files.
const LqdProjectFileName string = "lqd.toml"

// LqdFileExt is the file extension for an lqd source file.
const LqdFileExt string = ".lqd"

// MainFuncName is the name of the program entry point.
const MainFuncName string = "main"

// Enumeration of the output targets.
const (
	TargetIR   = "ir"   // Textual lqd IR.
	TargetLLVM = "llvm" // LLVM assembly.
)

// TargetExts maps each output target to the extension of its output files.
var TargetExts = map[string]string{
	TargetIR:   ".lqir",
	TargetLLVM: ".ll",
}
