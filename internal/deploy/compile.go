// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package deploy

import (
	"fmt"
	"strings"

	"ibridge/cli/internal/errors"
)

// compileCommands maps a member source type to the CL command that
// compiles it. DDS and command types create *FILE/*CMD objects, the
// rest create *PGM objects.
var compileCommands = map[string]string{
	"CLP":      "CRTCLPGM",
	"CLLE":     "CRTBNDCL",
	"RPG":      "CRTRPGPGM",
	"RPGLE":    "CRTBNDRPG",
	"SQLRPG":   "CRTSQLRPG",
	"SQLRPGLE": "CRTSQLRPGI",
	"CBL":      "CRTCBLPGM",
	"CBLLE":    "CRTBNDCBL",
	"SQLCBL":   "CRTSQLCBL",
	"SQLCBLLE": "CRTSQLCBLI",
	"PF":       "CRTPF",
	"LF":       "CRTLF",
	"DSPF":     "CRTDSPF",
	"PRTF":     "CRTPRTF",
	"CMD":      "CRTCMD",
}

// CompileCommand resolves the CL compile command for a source type.
func CompileCommand(sourceType string) (string, error) {
	cmd, ok := compileCommands[strings.ToUpper(strings.TrimSpace(sourceType))]
	if !ok {
		return "", errors.Newf(errors.UnknownSourceType,
			"no compile command for source type %q", strings.ToUpper(strings.TrimSpace(sourceType)))
	}
	return cmd, nil
}

// objectType returns the object type a compile command produces, for
// the existence check after compiling.
func objectType(cmd string) string {
	switch cmd {
	case "CRTPF", "CRTLF", "CRTDSPF", "CRTPRTF":
		return "*FILE"
	case "CRTCMD":
		return "*CMD"
	}
	return "*PGM"
}

// buildCompileCommand assembles the full CL command. The object
// parameter keyword differs by command family: FILE for DDS, CMD for
// command definitions, PGM for everything else.
func buildCompileCommand(cmd, targetLib, lib, srcpf, mbr, options string) string {
	var b strings.Builder
	switch cmd {
	case "CRTPF", "CRTLF", "CRTDSPF", "CRTPRTF":
		fmt.Fprintf(&b, "%s FILE(%s/%s)", cmd, targetLib, mbr)
	case "CRTCMD":
		fmt.Fprintf(&b, "%s CMD(%s/%s) PGM(*LIBL/%s)", cmd, targetLib, mbr, mbr)
	default:
		fmt.Fprintf(&b, "%s PGM(%s/%s)", cmd, targetLib, mbr)
	}
	fmt.Fprintf(&b, " SRCFILE(%s/%s) SRCMBR(%s)", lib, srcpf, mbr)
	if options != "" {
		b.WriteByte(' ')
		b.WriteString(options)
	}
	return b.String()
}

// buildAddMemberCommand assembles the ADDPFM command that creates a
// source member. Single quotes in the description double per CL rules.
func buildAddMemberCommand(lib, srcpf, mbr, sourceType, description string) string {
	desc := strings.ReplaceAll(description, "'", "''")
	return fmt.Sprintf("ADDPFM FILE(%s/%s) MBR(%s) SRCTYPE(%s) TEXT('%s')",
		lib, srcpf, mbr, sourceType, desc)
}
