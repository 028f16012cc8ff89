// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package ffq

// RaceEnabled is true when the race detector is active.
// Tests use it to shorten streams that poll the file system.
const RaceEnabled = true
