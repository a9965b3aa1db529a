// Copyright 2025 ohmycaptainnemo
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"github.com/google/uuid"
)

// 📦 Job is one source file to convert into a destination directory
type Job struct {
	ID          uuid.UUID
	Source      string
	Destination string
}

// 🏭 NewJob creates a job with a fresh ID
func NewJob(source, destination string) Job {
	return Job{
		ID:          uuid.New(),
		Source:      source,
		Destination: destination,
	}
}

// NewJobs creates one job per source, all sharing a destination
func NewJobs(sources []string, destination string) []Job {
	jobs := make([]Job, 0, len(sources))
	for _, src := range sources {
		jobs = append(jobs, NewJob(src, destination))
	}
	return jobs
}
