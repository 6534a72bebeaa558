// Package debug provides environment controlled debug logging.
//
// Each concern has its own variable; YD_DEBUG enables all of them:
//
//	YD_DEBUG_PARSE     decoding and schema binding
//	YD_DEBUG_VALIDATE  validation and default materialization
//	YD_DEBUG_PATH      path query evaluation
//	YD_DEBUG_DIFF      diff computation and reversal
//	YD_DEBUG_APPLY     diff application
//	YD_DEBUG_MERGE     tree merges
//
// Messages are written through a zap logger, stderr by default.  Embedding
// programs may install their own with SetLogger.
package debug
