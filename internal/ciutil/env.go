package ciutil

import (
	"os"
)

// Common environment variable names used across the codebase.
// These constants ensure consistent access and prevent typos.
const (
	// CI environment detection variables
	EnvCI               = "CI"
	EnvGitHubActions    = "GITHUB_ACTIONS"
	EnvGitHubWorkspace  = "GITHUB_WORKSPACE"
	EnvGitLabCI         = "GITLAB_CI"
	EnvGitLabProjectDir = "CI_PROJECT_DIR"
	EnvJenkinsURL       = "JENKINS_URL"
	EnvTravisCI         = "TRAVIS"
	EnvCircleCI         = "CIRCLECI"
)

// IsCI returns true if the current environment is a CI environment.
// It checks for common CI environment variables across different CI providers.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvTravisCI) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// IsGitHubActions returns true if the current environment is GitHub Actions.
func IsGitHubActions() bool {
	return os.Getenv(EnvGitHubActions) != "" && os.Getenv(EnvGitHubWorkspace) != ""
}

// IsGitLabCI returns true if the current environment is GitLab CI.
func IsGitLabCI() bool {
	return os.Getenv(EnvGitLabCI) != "" && os.Getenv(EnvGitLabProjectDir) != ""
}

// Metadata collects pipeline identifiers from the current CI environment.
// The returned map is suitable for attaching to every log record; it is
// empty outside of CI.
func Metadata() map[string]string {
	metadata := make(map[string]string)

	switch {
	case IsGitHubActions():
		metadata["ci_provider"] = "github-actions"
		addEnv(metadata, "ci_run_id", "GITHUB_RUN_ID")
		addEnv(metadata, "ci_commit", "GITHUB_SHA")
		addEnv(metadata, "ci_ref", "GITHUB_REF_NAME")
	case IsGitLabCI():
		metadata["ci_provider"] = "gitlab-ci"
		addEnv(metadata, "ci_run_id", "CI_PIPELINE_ID")
		addEnv(metadata, "ci_commit", "CI_COMMIT_SHA")
		addEnv(metadata, "ci_ref", "CI_COMMIT_REF_NAME")
	case os.Getenv(EnvJenkinsURL) != "":
		metadata["ci_provider"] = "jenkins"
		addEnv(metadata, "ci_run_id", "BUILD_NUMBER")
		addEnv(metadata, "ci_commit", "GIT_COMMIT")
	case os.Getenv(EnvTravisCI) != "":
		metadata["ci_provider"] = "travis"
		addEnv(metadata, "ci_run_id", "TRAVIS_BUILD_ID")
		addEnv(metadata, "ci_commit", "TRAVIS_COMMIT")
	case os.Getenv(EnvCircleCI) != "":
		metadata["ci_provider"] = "circleci"
		addEnv(metadata, "ci_run_id", "CIRCLE_BUILD_NUM")
		addEnv(metadata, "ci_commit", "CIRCLE_SHA1")
	case IsCI():
		metadata["ci_provider"] = "unknown"
	}

	return metadata
}

// addEnv copies the named environment variable into the map when it is set.
func addEnv(metadata map[string]string, key, envVar string) {
	if val := os.Getenv(envVar); val != "" {
		metadata[key] = val
	}
}
