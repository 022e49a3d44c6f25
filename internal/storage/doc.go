/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package storage persists annotation documents.
// A document is the JSON form of a canvas: its size and the snapshots of its shapes, bottom to top.
// Document files are written transactionally with timestamped backups; a damaged file falls back to its newest backup.
// A SQLite revision store keeps autosaves and crash snapshots per document name.
package storage
